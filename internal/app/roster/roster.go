// internal/app/roster/roster.go
package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dalemusser/triagehub/internal/domain/models"
)

// Load reads a clinician roster from a JSON file. The file is a plain array
// of clinician records; see Default for the expected shape.
func Load(path string) ([]models.Clinician, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}
	var clinicians []models.Clinician
	if err := json.Unmarshal(data, &clinicians); err != nil {
		return nil, fmt.Errorf("parse roster file %s: %w", path, err)
	}
	if err := Validate(clinicians); err != nil {
		return nil, fmt.Errorf("roster file %s: %w", path, err)
	}
	return clinicians, nil
}

// Validate checks a roster for structural problems: empty IDs, ratings
// outside 0–5, or specialties outside the defined category set.
func Validate(clinicians []models.Clinician) error {
	seen := make(map[string]bool, len(clinicians))
	for i, c := range clinicians {
		if c.ID == "" {
			return fmt.Errorf("clinician %d: missing id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("clinician %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
		if c.Rating < 0 || c.Rating > 5 {
			return fmt.Errorf("clinician %s: rating %v outside 0-5", c.ID, c.Rating)
		}
		for _, s := range c.Specialties {
			if !s.Valid() {
				return fmt.Errorf("clinician %s: unknown specialty %q", c.ID, s)
			}
		}
	}
	return nil
}

// Default returns the built-in sample roster used when no roster file is
// configured. Deployments are expected to supply their own.
func Default() []models.Clinician {
	return []models.Clinician{
		{
			ID:         "dr_001",
			Name:       "Ichiro Tanaka",
			Department: models.DepartmentInternalMedicine,
			Specialties: []models.Category{
				models.CategoryRespiratoryInfectious,
				models.CategoryGeneralInternal,
			},
			ExperienceYears: 15,
			Rating:          4.8,
		},
		{
			ID:              "dr_002",
			Name:            "Mika Sato",
			Department:      "dermatology",
			Specialties:     []models.Category{models.CategoryDermatologic},
			ExperienceYears: 12,
			Rating:          4.9,
		},
		{
			ID:              "dr_003",
			Name:            "Kenta Yamada",
			Department:      "orthopedics",
			Specialties:     []models.Category{models.CategoryMusculoskeletal},
			ExperienceYears: 20,
			Rating:          4.7,
		},
		{
			ID:              "dr_004",
			Name:            "Hanako Suzuki",
			Department:      "gastroenterology",
			Specialties:     []models.Category{models.CategoryDigestive},
			ExperienceYears: 18,
			Rating:          4.8,
		},
		{
			ID:              "dr_005",
			Name:            "Taro Takahashi",
			Department:      "neurology",
			Specialties:     []models.Category{models.CategoryNeuroPsychiatric},
			ExperienceYears: 22,
			Rating:          4.9,
		},
	}
}
