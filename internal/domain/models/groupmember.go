// internal/domain/models/groupmember.go
package models

import "time"

// GroupMember is the authoritative join between a patient and a consultation
// group. Exactly one document per (group_id, patient_id); the member weakly
// references its questionnaire for lookup only.
type GroupMember struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	GroupID         string    `bson:"group_id" json:"group_id"`
	PatientID       string    `bson:"patient_id" json:"patient_id"`
	QuestionnaireID string    `bson:"questionnaire_id" json:"questionnaire_id"`
	Priority        int       `bson:"priority" json:"priority"` // 1 low – 5 high
	JoinedAt        time.Time `bson:"joined_at" json:"joined_at"`
}
