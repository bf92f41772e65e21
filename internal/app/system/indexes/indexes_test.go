package indexes_test

import (
	"testing"

	"github.com/dalemusser/triagehub/internal/app/system/indexes"
	"github.com/dalemusser/triagehub/internal/testutil"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesNamedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	checks := map[string]string{
		"consultation_groups": "open_group_lookup",
		"group_members":       "one_membership_per_patient",
		"group_slots":         "one_claim_per_slot",
		"questionnaires":      "patient_history",
	}
	for coll, want := range checks {
		cursor, err := db.Collection(coll).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("listing indexes for %s: %v", coll, err)
		}
		var specs []struct {
			Name string `bson:"name"`
		}
		if err := cursor.All(ctx, &specs); err != nil {
			t.Fatalf("decoding indexes for %s: %v", coll, err)
		}
		found := false
		for _, s := range specs {
			if s.Name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("collection %s missing index %q", coll, want)
		}
	}
}
