package questionnairestore_test

import (
	"testing"
	"time"

	questionnairestore "github.com/dalemusser/triagehub/internal/app/store/questionnaires"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/dalemusser/triagehub/internal/testutil"
)

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := questionnairestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	report := models.QuestionnaireReport{
		PatientID:    "patient_001",
		MainSymptoms: "38度の発熱と咳",
		Severity:     "中等度",
		Duration:     "2-3日前から",
		GeneratedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}

	id, err := store.Insert(ctx, report)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated ID")
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PatientID != report.PatientID || got.MainSymptoms != report.MainSymptoms {
		t.Errorf("round trip mismatch: got %+v", got)
	}
}

func TestStore_GetByIDs_SkipsMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := questionnairestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id1, err := store.Insert(ctx, models.QuestionnaireReport{PatientID: "p1", MainSymptoms: "頭痛", GeneratedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	id2, err := store.Insert(ctx, models.QuestionnaireReport{PatientID: "p2", MainSymptoms: "腹痛", GeneratedAt: time.Now().UTC()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByIDs(ctx, []string{id1, id2, "missing"})
	if err != nil {
		t.Fatalf("GetByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reports, want 2", len(got))
	}
	if got[id1].PatientID != "p1" || got[id2].PatientID != "p2" {
		t.Errorf("unexpected mapping: %+v", got)
	}
	if _, ok := got["missing"]; ok {
		t.Error("missing ID should be absent from the result")
	}
}
