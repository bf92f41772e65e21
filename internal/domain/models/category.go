// internal/domain/models/category.go
package models

// Category is the coarse clinical classification bucket used for grouping
// patients and matching clinicians. The set is closed; free-text symptom
// descriptions are mapped onto it by the triage package.
type Category string

const (
	CategoryRespiratoryInfectious Category = "respiratory_infectious"
	CategoryDigestive             Category = "digestive"
	CategoryNeuroPsychiatric      Category = "neuro_psychiatric"
	CategoryDermatologic          Category = "dermatologic"
	CategoryMusculoskeletal       Category = "musculoskeletal"
	CategoryGeneralInternal       Category = "general_internal"
)

// Categories lists every defined category in classification precedence order.
func Categories() []Category {
	return []Category{
		CategoryRespiratoryInfectious,
		CategoryDigestive,
		CategoryNeuroPsychiatric,
		CategoryDermatologic,
		CategoryMusculoskeletal,
		CategoryGeneralInternal,
	}
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRespiratoryInfectious, CategoryDigestive, CategoryNeuroPsychiatric,
		CategoryDermatologic, CategoryMusculoskeletal, CategoryGeneralInternal:
		return true
	}
	return false
}
