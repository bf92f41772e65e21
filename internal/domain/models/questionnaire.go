// internal/domain/models/questionnaire.go
package models

import "time"

// QuestionnaireResponse is one raw question/answer pair captured during intake.
type QuestionnaireResponse struct {
	Question string    `bson:"question" json:"question"`
	Answer   string    `bson:"answer" json:"answer"`
	AskedAt  time.Time `bson:"asked_at" json:"asked_at"`
}

// QuestionnaireReport is the immutable record of a completed symptom intake.
// It is created once per patient per visit by the intake collaborator and is
// never mutated afterward; the admission pipeline only reads it.
type QuestionnaireReport struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	PatientID string `bson:"patient_id" json:"patient_id"`

	MainSymptoms      string `bson:"main_symptoms" json:"main_symptoms"`
	Severity          string `bson:"severity" json:"severity"`
	Duration          string `bson:"duration" json:"duration"`
	Medications       string `bson:"medications,omitempty" json:"medications,omitempty"`
	Allergies         string `bson:"allergies,omitempty" json:"allergies,omitempty"`
	PreviousTreatment string `bson:"previous_treatment,omitempty" json:"previous_treatment,omitempty"`
	Notes             string `bson:"notes,omitempty" json:"notes,omitempty"`

	Responses []QuestionnaireResponse `bson:"responses,omitempty" json:"responses,omitempty"`

	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}
