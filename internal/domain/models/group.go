// internal/domain/models/group.go
package models

import "time"

// Group status values. Only "waiting" groups accept admissions; the external
// session-runner drives the transitions to in_progress and completed.
const (
	GroupStatusWaiting    = "waiting"
	GroupStatusInProgress = "in_progress"
	GroupStatusCompleted  = "completed"
)

// ConsultationGroup is a capacity- and time-bounded batch of patients who
// share a symptom category and an assigned clinician.
//
// NOTE:
//   - Members are not embedded here; they live in the group_members
//     collection. MemberCount is the capacity-accounting field maintained
//     by the conditional admission write and must never exceed MaxCapacity.
type ConsultationGroup struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	ClinicianID   string    `bson:"clinician_id" json:"clinician_id"`
	ClinicianName string    `bson:"clinician_name" json:"clinician_name"`
	Department    string    `bson:"department" json:"department"`
	Category      Category  `bson:"category" json:"category"`
	Status        string    `bson:"status" json:"status"`
	ScheduledTime time.Time `bson:"scheduled_time" json:"scheduled_time"`
	MaxCapacity   int       `bson:"max_capacity" json:"max_capacity"`
	MemberCount   int       `bson:"member_count" json:"member_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Open reports whether the group can still accept admissions. A group whose
// member count has reached (or, after a missed race, exceeded) its capacity
// is treated as closed regardless of status.
func (g ConsultationGroup) Open() bool {
	return g.Status == GroupStatusWaiting && g.MemberCount < g.MaxCapacity
}
