// internal/app/triage/categorizer.go

// Package triage maps free-text symptom descriptions onto the closed set of
// clinical categories and derives an urgency score from a completed
// questionnaire. Both operations are pure functions: no I/O, no error paths.
package triage

import (
	"strings"

	"github.com/dalemusser/triagehub/internal/domain/models"
)

// keywordClass is one category's keyword set. Classes are tested in slice
// order and the first match wins, so overlapping keywords are resolved by
// precedence, never by counting.
type keywordClass struct {
	category models.Category
	keywords []string
}

// Intake runs in Japanese; English equivalents are carried so that rosters
// and reports fed in either language classify the same way.
var keywordClasses = []keywordClass{
	{models.CategoryRespiratoryInfectious, []string{
		"発熱", "熱", "咳", "のど", "fever", "cough", "sore throat", "throat",
	}},
	{models.CategoryDigestive, []string{
		"腹痛", "胃痛", "下痢", "便秘", "stomach", "abdominal", "diarrhea", "constipation", "nausea",
	}},
	{models.CategoryNeuroPsychiatric, []string{
		"頭痛", "めまい", "不安", "うつ", "headache", "dizziness", "anxiety", "depress",
	}},
	{models.CategoryDermatologic, []string{
		"皮膚", "かゆみ", "湿疹", "skin", "rash", "itch", "eczema",
	}},
	{models.CategoryMusculoskeletal, []string{
		"関節", "腰痛", "筋肉", "joint", "back pain", "muscle",
	}},
}

// Categorize maps a free-text symptom description to a category. It is total:
// every input, including the empty string, maps to some category, with
// general_internal as the fallback when no keyword class matches.
func Categorize(freeText string) models.Category {
	text := strings.ToLower(freeText)
	for _, class := range keywordClasses {
		for _, kw := range class.keywords {
			if strings.Contains(text, kw) {
				return class.category
			}
		}
	}
	return models.CategoryGeneralInternal
}
