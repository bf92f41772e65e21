// internal/domain/models/clinician.go
package models

// DepartmentInternalMedicine is the department used as the selection fallback
// when no clinician on the roster covers a category.
const DepartmentInternalMedicine = "internal_medicine"

// Clinician is static reference data describing a doctor available for group
// consultations. Rosters are injected (loaded from configuration), never
// written by this service.
type Clinician struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Department      string     `json:"department"`
	Specialties     []Category `json:"specialties"`
	ExperienceYears int        `json:"experience_years"`
	Rating          float64    `json:"rating"` // 0–5
}

// Covers reports whether the clinician's specialty set contains the category.
func (c Clinician) Covers(cat Category) bool {
	for _, s := range c.Specialties {
		if s == cat {
			return true
		}
	}
	return false
}
