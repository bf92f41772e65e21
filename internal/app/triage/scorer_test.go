package triage_test

import (
	"testing"

	"github.com/dalemusser/triagehub/internal/app/triage"
	"github.com/dalemusser/triagehub/internal/domain/models"
)

func TestScore_Baseline(t *testing.T) {
	report := models.QuestionnaireReport{
		MainSymptoms: "軽い倦怠感",
		Severity:     "軽度",
		Duration:     "今日から",
	}
	if got := triage.Score(report); got != 1 {
		t.Errorf("baseline score: got %d, want 1", got)
	}
}

// Moderate severity with a short duration: 1 + 2 + 0 = 3.
func TestScore_ModerateFeverScenario(t *testing.T) {
	report := models.QuestionnaireReport{
		MainSymptoms: "38度の発熱と咳",
		Severity:     "中等度",
		Duration:     "2-3日前から",
	}
	if got := triage.Score(report); got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

// Severe chest pain with a long duration: 1+3+2+3 = 9, clamped to 5.
func TestScore_ClampsAtFive(t *testing.T) {
	report := models.QuestionnaireReport{
		MainSymptoms: "胸の痛みと息苦しさ",
		Severity:     "重度",
		Duration:     "それ以上前から",
	}
	if got := triage.Score(report); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
}

func TestScore_DurationBonuses(t *testing.T) {
	week := models.QuestionnaireReport{Severity: "軽度", Duration: "1週間前から"}
	if got := triage.Score(week); got != 2 {
		t.Errorf("week duration: got %d, want 2", got)
	}
	month := models.QuestionnaireReport{Severity: "軽度", Duration: "1ヶ月前から"}
	if got := triage.Score(month); got != 3 {
		t.Errorf("month duration: got %d, want 3", got)
	}
}

func TestScore_RedFlagIsCumulative(t *testing.T) {
	report := models.QuestionnaireReport{
		MainSymptoms: "chest pain",
		Severity:     "moderate",
		Duration:     "since yesterday",
	}
	// 1 + 2 (moderate) + 3 (red flag) = 5 exactly, no clamp needed.
	if got := triage.Score(report); got != 5 {
		t.Errorf("got %d, want 5", got)
	}
}

func TestScore_Bounds(t *testing.T) {
	reports := []models.QuestionnaireReport{
		{},
		{Severity: "重度", Duration: "それ以上", MainSymptoms: "胸の痛み 息苦しさ"},
		{Severity: "severe", Duration: "a month or longer", MainSymptoms: "difficulty breathing"},
		{MainSymptoms: "軽い頭痛"},
	}
	for i, r := range reports {
		got := triage.Score(r)
		if got < triage.MinPriority || got > triage.MaxPriority {
			t.Errorf("report %d: score %d outside [%d,%d]", i, got, triage.MinPriority, triage.MaxPriority)
		}
	}
}
