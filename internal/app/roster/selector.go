// internal/app/roster/selector.go

// Package roster manages the injected clinician reference data and picks the
// best-fit clinician for a symptom category.
package roster

import (
	"errors"
	"sort"

	"github.com/dalemusser/triagehub/internal/domain/models"
)

// ErrNoCliniciansAvailable is returned when selection is attempted against an
// empty roster. Any non-empty roster always yields a clinician.
var ErrNoCliniciansAvailable = errors.New("no clinicians available on the roster")

// fitScore ranks clinicians within a specialty match: quality rating carries
// most of the weight, years of experience (normalized against a 30-year
// career) the rest.
func fitScore(c models.Clinician) float64 {
	return c.Rating*0.6 + (float64(c.ExperienceYears)/30.0)*0.4
}

// SelectBest picks the clinician for a category from the roster.
//
// Clinicians whose specialty set contains the category are ranked by fit
// score descending; ties keep roster order so selection stays deterministic.
// When no specialist matches, the first internal-medicine clinician is used,
// and failing that the first roster entry. Only an empty roster is an error.
func SelectBest(category models.Category, clinicians []models.Clinician) (models.Clinician, error) {
	if len(clinicians) == 0 {
		return models.Clinician{}, ErrNoCliniciansAvailable
	}

	var matched []models.Clinician
	for _, c := range clinicians {
		if c.Covers(category) {
			matched = append(matched, c)
		}
	}
	if len(matched) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return fitScore(matched[i]) > fitScore(matched[j])
		})
		return matched[0], nil
	}

	for _, c := range clinicians {
		if c.Department == models.DepartmentInternalMedicine {
			return c, nil
		}
	}
	return clinicians[0], nil
}
