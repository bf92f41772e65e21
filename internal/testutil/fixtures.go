package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateGroup inserts a waiting consultation group and returns it.
func (f *Fixtures) CreateGroup(ctx context.Context, category models.Category, department string, scheduled time.Time, capacity int) models.ConsultationGroup {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.ConsultationGroup{
		ID:            uuid.NewString(),
		ClinicianID:   "dr_test",
		ClinicianName: "Test Clinician",
		Department:    department,
		Category:      category,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: scheduled.UTC(),
		MaxCapacity:   capacity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("consultation_groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateMember inserts a group member document and bumps the group's member
// count to match, mirroring what a real admission leaves behind.
func (f *Fixtures) CreateMember(ctx context.Context, groupID, patientID string, priority int) models.GroupMember {
	f.t.Helper()

	m := models.GroupMember{
		ID:              uuid.NewString(),
		GroupID:         groupID,
		PatientID:       patientID,
		QuestionnaireID: uuid.NewString(),
		Priority:        priority,
		JoinedAt:        time.Now().UTC(),
	}
	if _, err := f.db.Collection("group_members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	if _, err := f.db.Collection("consultation_groups").UpdateByID(ctx, groupID,
		bson.M{"$inc": bson.M{"member_count": 1}}); err != nil {
		f.t.Fatalf("failed to bump member count: %v", err)
	}
	return m
}

// CreateQuestionnaire inserts a questionnaire report and returns it.
func (f *Fixtures) CreateQuestionnaire(ctx context.Context, patientID, symptoms, severity, duration string) models.QuestionnaireReport {
	f.t.Helper()

	r := models.QuestionnaireReport{
		ID:           uuid.NewString(),
		PatientID:    patientID,
		MainSymptoms: symptoms,
		Severity:     severity,
		Duration:     duration,
		GeneratedAt:  time.Now().UTC(),
	}
	if _, err := f.db.Collection("questionnaires").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test questionnaire: %v", err)
	}
	return r
}
