// internal/app/summary/aggregator.go

// Package summary reduces a group's member roster and questionnaires into the
// aggregate statistics and clinician-facing report shown before a session
// starts. Everything here is a pure reduction over its inputs.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dalemusser/triagehub/internal/app/triage"
	"github.com/dalemusser/triagehub/internal/domain/models"
)

// MemberDetail is the compact per-patient listing inside a summary.
type MemberDetail struct {
	PatientID   string `json:"patient_id"`
	Symptoms    string `json:"symptoms"`
	Severity    string `json:"severity"`
	Duration    string `json:"duration"`
	Medications string `json:"medications"`
	Allergies   string `json:"allergies"`
	Priority    int    `json:"priority"`
}

// HighPriorityPatient flags a member needing triage attention.
type HighPriorityPatient struct {
	PatientID string `json:"patient_id"`
	Priority  int    `json:"priority"`
}

// GroupSummary is the aggregate view of one consultation group.
type GroupSummary struct {
	TotalPatients  int                   `json:"total_patients"`
	SymptomCounts  map[string]int        `json:"symptom_counts"`
	SeverityCounts map[string]int        `json:"severity_counts"`
	DurationCounts map[string]int        `json:"duration_counts"`
	HighPriority   []HighPriorityPatient `json:"high_priority"`
	Members        []MemberDetail        `json:"members"`
}

// symptomDelimiters split a main-symptoms string into countable tokens.
// Intake joins symptoms with the Japanese enumeration comma.
var symptomDelimiters = []string{"、", ","}

// Summarize reduces the member roster of a group into aggregate statistics.
// Members whose questionnaire is missing from the lookup map still count
// toward the total but contribute no symptom or severity data. An empty
// member list yields a zero-count summary, not an error.
func Summarize(members []models.GroupMember, questionnaires map[string]models.QuestionnaireReport) GroupSummary {
	s := GroupSummary{
		TotalPatients:  len(members),
		SymptomCounts:  map[string]int{},
		SeverityCounts: map[string]int{},
		DurationCounts: map[string]int{},
	}

	for _, m := range members {
		report, ok := questionnaires[m.QuestionnaireID]
		if !ok {
			s.Members = append(s.Members, MemberDetail{PatientID: m.PatientID, Priority: m.Priority})
			continue
		}

		for _, token := range splitSymptoms(report.MainSymptoms) {
			s.SymptomCounts[token]++
		}
		if report.Severity != "" {
			s.SeverityCounts[report.Severity]++
		}
		if report.Duration != "" {
			s.DurationCounts[report.Duration]++
		}

		s.Members = append(s.Members, MemberDetail{
			PatientID:   m.PatientID,
			Symptoms:    report.MainSymptoms,
			Severity:    report.Severity,
			Duration:    report.Duration,
			Medications: report.Medications,
			Allergies:   report.Allergies,
			Priority:    m.Priority,
		})
	}

	for _, m := range members {
		if m.Priority >= triage.HighPriorityThreshold {
			s.HighPriority = append(s.HighPriority, HighPriorityPatient{
				PatientID: m.PatientID,
				Priority:  m.Priority,
			})
		}
	}
	// Highest urgency first; equal priorities keep join order.
	sort.SliceStable(s.HighPriority, func(i, j int) bool {
		return s.HighPriority[i].Priority > s.HighPriority[j].Priority
	})

	return s
}

func splitSymptoms(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := []string{text}
	for _, d := range symptomDelimiters {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, d)...)
		}
		parts = next
	}
	var tokens []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Report renders the clinician-facing text block for the summary. Map-backed
// sections are ordered by count descending (ties alphabetical) so repeated
// renders of the same summary are identical.
func (s GroupSummary) Report() string {
	var b strings.Builder

	b.WriteString("Group Consultation Summary\n")
	fmt.Fprintf(&b, "Total patients: %d\n", s.TotalPatients)
	if s.TotalPatients == 0 {
		return b.String()
	}

	b.WriteString("\nMain symptoms:\n")
	for _, e := range sortedCounts(s.SymptomCounts) {
		fmt.Fprintf(&b, "  %s: %d\n", e.key, e.count)
	}

	b.WriteString("\nSeverity distribution:\n")
	for _, e := range sortedCounts(s.SeverityCounts) {
		fmt.Fprintf(&b, "  %s: %d\n", e.key, e.count)
	}

	b.WriteString("\nSymptom duration:\n")
	for _, e := range sortedCounts(s.DurationCounts) {
		fmt.Fprintf(&b, "  %s: %d\n", e.key, e.count)
	}

	if len(s.HighPriority) > 0 {
		b.WriteString("\nHigh-priority patients:\n")
		for _, p := range s.HighPriority {
			fmt.Fprintf(&b, "  %s (priority %d)\n", p.PatientID, p.Priority)
		}
	}

	b.WriteString("\nPatients:\n")
	for i, m := range s.Members {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.PatientID)
		fmt.Fprintf(&b, "   symptoms: %s\n", m.Symptoms)
		fmt.Fprintf(&b, "   severity: %s\n", m.Severity)
		fmt.Fprintf(&b, "   duration: %s\n", m.Duration)
		if m.Medications != "" {
			fmt.Fprintf(&b, "   medications: %s\n", m.Medications)
		}
		if m.Allergies != "" {
			fmt.Fprintf(&b, "   allergies: %s\n", m.Allergies)
		}
		fmt.Fprintf(&b, "   priority: %d\n", m.Priority)
	}

	return b.String()
}

type countEntry struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, v := range m {
		entries = append(entries, countEntry{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}
