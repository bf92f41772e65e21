// internal/app/triage/scorer.go
package triage

import (
	"strings"

	"github.com/dalemusser/triagehub/internal/domain/models"
)

// Priority score bounds.
const (
	MinPriority = 1
	MaxPriority = 5
)

// HighPriorityThreshold marks members who need clinician triage attention.
const HighPriorityThreshold = 4

var (
	severeTerms    = []string{"重度", "激しい", "severe", "intense"}
	moderateTerms  = []string{"中等度", "moderate"}
	monthTerms     = []string{"1ヶ月", "それ以上", "month", "longer"}
	weekTerms      = []string{"1週間", "week"}
	redFlagTerms   = []string{"胸の痛み", "息苦しさ", "chest pain", "breathing difficulty", "difficulty breathing"}
)

// Score derives the urgency score for a questionnaire report.
//
// Starting from a base of 1: severe severity adds 3 (moderate adds 2),
// a duration of a month or more adds 2 (a week or more adds 1), and a
// red-flag symptom (chest pain, breathing difficulty) independently adds 3.
// The sum is clamped to [1,5]; a report carrying every bonus still scores 5.
func Score(report models.QuestionnaireReport) int {
	priority := MinPriority

	switch {
	case containsAny(report.Severity, severeTerms):
		priority += 3
	case containsAny(report.Severity, moderateTerms):
		priority += 2
	}

	switch {
	case containsAny(report.Duration, monthTerms):
		priority += 2
	case containsAny(report.Duration, weekTerms):
		priority += 1
	}

	if containsAny(report.MainSymptoms, redFlagTerms) {
		priority += 3
	}

	if priority > MaxPriority {
		priority = MaxPriority
	}
	return priority
}

func containsAny(text string, terms []string) bool {
	text = strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
