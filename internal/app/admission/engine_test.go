package admission_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	"github.com/dalemusser/triagehub/internal/app/roster"
	"github.com/dalemusser/triagehub/internal/app/store/memstore"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"go.uber.org/zap"
)

var testClinician = models.Clinician{
	ID:          "dr_001",
	Name:        "Ichiro Tanaka",
	Department:  models.DepartmentInternalMedicine,
	Specialties: []models.Category{models.CategoryRespiratoryInfectious, models.CategoryGeneralInternal},
	Rating:      4.8,
}

func newTestEngine(store admission.Gateway, cfg admission.Config) *admission.Engine {
	return admission.NewEngine(store, cfg, zap.NewNop())
}

func TestAdmitOrCreate_CreatesWhenNoGroups(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	group, member, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryRespiratoryInfectious, testClinician, 3, "p1", "q1", now)
	if err != nil {
		t.Fatalf("AdmitOrCreate failed: %v", err)
	}

	if group.ID == "" {
		t.Error("expected group ID to be assigned")
	}
	if group.Status != models.GroupStatusWaiting {
		t.Errorf("status: got %q, want waiting", group.Status)
	}
	if group.MaxCapacity != admission.DefaultCapacity {
		t.Errorf("capacity: got %d, want %d", group.MaxCapacity, admission.DefaultCapacity)
	}
	if want := now.Add(admission.DefaultScheduleOffset); !group.ScheduledTime.Equal(want) {
		t.Errorf("scheduled time: got %v, want %v", group.ScheduledTime, want)
	}
	if group.MemberCount != 1 {
		t.Errorf("member count: got %d, want 1", group.MemberCount)
	}
	if member.GroupID != group.ID || member.PatientID != "p1" || member.QuestionnaireID != "q1" {
		t.Errorf("member not bound to group: %+v", member)
	}
}

func TestAdmitOrCreate_JoinsOpenGroup(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	seeded := store.SeedGroup(models.ConsultationGroup{
		ClinicianID:   testClinician.ID,
		Department:    testClinician.Department,
		Category:      models.CategoryRespiratoryInfectious,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(60 * time.Second),
		MaxCapacity:   8,
	})

	group, member, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryRespiratoryInfectious, testClinician, 2, "p2", "q2", now)
	if err != nil {
		t.Fatalf("AdmitOrCreate failed: %v", err)
	}
	if group.ID != seeded.ID {
		t.Errorf("expected admission into seeded group %s, got %s", seeded.ID, group.ID)
	}
	if len(store.Members(seeded.ID)) != 1 {
		t.Errorf("expected 1 member in group, got %d", len(store.Members(seeded.ID)))
	}
	if member.JoinedAt.IsZero() {
		t.Error("expected JoinedAt to be set")
	}
}

func TestAdmitOrCreate_CategoryAndDepartmentMustMatch(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	other := store.SeedGroup(models.ConsultationGroup{
		Department:    "dermatology",
		Category:      models.CategoryDermatologic,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(time.Minute),
		MaxCapacity:   8,
	})

	group, _, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryRespiratoryInfectious, testClinician, 1, "p1", "q1", now)
	if err != nil {
		t.Fatalf("AdmitOrCreate failed: %v", err)
	}
	if group.ID == other.ID {
		t.Error("admitted into a group with a different category and department")
	}
}

// The admission window is a closed interval: groups scheduled exactly at now
// or exactly at now+window are still eligible.
func TestAdmitOrCreate_WindowIsInclusive(t *testing.T) {
	now := time.Now().UTC()
	cfg := admission.Config{Window: 2 * time.Minute}

	for _, tc := range []struct {
		name      string
		scheduled time.Time
		joinable  bool
	}{
		{"at now", now, true},
		{"at window end", now.Add(2 * time.Minute), true},
		{"before now", now.Add(-time.Second), false},
		{"past window end", now.Add(2*time.Minute + time.Second), false},
	} {
		store := memstore.New()
		engine := newTestEngine(store, cfg)
		seeded := store.SeedGroup(models.ConsultationGroup{
			Department:    testClinician.Department,
			Category:      models.CategoryGeneralInternal,
			Status:        models.GroupStatusWaiting,
			ScheduledTime: tc.scheduled,
			MaxCapacity:   8,
		})

		group, _, err := engine.AdmitOrCreate(context.Background(),
			models.CategoryGeneralInternal, testClinician, 1, "p1", "q1", now)
		if err != nil {
			t.Fatalf("%s: AdmitOrCreate failed: %v", tc.name, err)
		}
		joined := group.ID == seeded.ID
		if joined != tc.joinable {
			t.Errorf("%s: joined=%v, want %v", tc.name, joined, tc.joinable)
		}
	}
}

func TestAdmitOrCreate_SkipsFullGroup(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	full := store.SeedGroup(models.ConsultationGroup{
		Department:    testClinician.Department,
		Category:      models.CategoryGeneralInternal,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(30 * time.Second),
		MaxCapacity:   1,
	})
	store.SeedMember(models.GroupMember{GroupID: full.ID, PatientID: "p0", Priority: 1})

	open := store.SeedGroup(models.ConsultationGroup{
		Department:    testClinician.Department,
		Category:      models.CategoryGeneralInternal,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(90 * time.Second),
		MaxCapacity:   8,
	})

	group, _, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryGeneralInternal, testClinician, 1, "p1", "q1", now)
	if err != nil {
		t.Fatalf("AdmitOrCreate failed: %v", err)
	}
	if group.ID != open.ID {
		t.Errorf("expected admission into open group %s, got %s", open.ID, group.ID)
	}
	if len(store.Members(full.ID)) != 1 {
		t.Error("full group gained a member")
	}
}

// A group whose member count already exceeds capacity (a missed race in the
// past) is excluded from admission, not repaired.
func TestAdmitOrCreate_ExcludesOverfullGroup(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	broken := store.SeedGroup(models.ConsultationGroup{
		Department:    testClinician.Department,
		Category:      models.CategoryGeneralInternal,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(time.Minute),
		MaxCapacity:   1,
	})
	store.SeedMember(models.GroupMember{GroupID: broken.ID, PatientID: "pa", Priority: 1})
	store.SeedMember(models.GroupMember{GroupID: broken.ID, PatientID: "pb", Priority: 1})

	group, _, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryGeneralInternal, testClinician, 1, "p1", "q1", now)
	if err != nil {
		t.Fatalf("AdmitOrCreate failed: %v", err)
	}
	if group.ID == broken.ID {
		t.Error("admitted into an over-capacity group")
	}
	if len(store.Members(broken.ID)) != 2 {
		t.Error("over-capacity group was modified")
	}
}

func TestAdmitOrCreate_DuplicatePatientIsIdempotent(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	first, _, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryGeneralInternal, testClinician, 2, "p1", "q1", now)
	if err != nil {
		t.Fatalf("first AdmitOrCreate failed: %v", err)
	}

	again, _, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryGeneralInternal, testClinician, 2, "p1", "q1", now)
	if err != nil {
		t.Fatalf("second AdmitOrCreate failed: %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("duplicate admission produced a different group: %s vs %s", again.ID, first.ID)
	}
	if len(store.Members(first.ID)) != 1 {
		t.Errorf("patient admitted twice into the same group: %d members", len(store.Members(first.ID)))
	}
}

// Two simultaneous admissions against a group with capacity 1: exactly one
// lands in the seeded group, the other creates a second group.
func TestAdmitOrCreate_CapacityRaceRedirectsLoser(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	seeded := store.SeedGroup(models.ConsultationGroup{
		Department:    testClinician.Department,
		Category:      models.CategoryGeneralInternal,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(time.Minute),
		MaxCapacity:   1,
	})

	var wg sync.WaitGroup
	results := make([]models.ConsultationGroup, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			patient := string(rune('a' + i))
			results[i], _, errs[i] = engine.AdmitOrCreate(context.Background(),
				models.CategoryGeneralInternal, testClinician, 1, "patient-"+patient, "q-"+patient, now)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("admission %d failed: %v", i, err)
		}
	}
	if n := len(store.Members(seeded.ID)); n != 1 {
		t.Errorf("seeded group has %d members, want exactly 1", n)
	}
	if results[0].ID == results[1].ID {
		t.Error("both admissions landed in the capacity-1 group")
	}
	if len(store.Groups()) != 2 {
		t.Errorf("expected 2 groups total, got %d", len(store.Groups()))
	}
}

// Randomized concurrent trials: whatever the interleaving, no group ever
// exceeds its capacity and every patient is admitted exactly once.
func TestAdmitOrCreate_ConcurrentAdmissionsNeverExceedCapacity(t *testing.T) {
	const patients = 40
	const capacity = 4

	store := memstore.New()
	engine := newTestEngine(store, admission.Config{DefaultCapacity: capacity})
	now := time.Now().UTC()

	var wg sync.WaitGroup
	errs := make([]error, patients)
	for i := 0; i < patients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pid := "patient-" + string(rune('A'+i%26)) + string(rune('0'+i/26))
			_, _, errs[i] = engine.AdmitOrCreate(context.Background(),
				models.CategoryDigestive, testClinician, 1, pid, "q-"+pid, now)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("admission %d failed: %v", i, err)
		}
	}

	total := 0
	for _, g := range store.Groups() {
		n := len(store.Members(g.ID))
		if n > g.MaxCapacity {
			t.Errorf("group %s has %d members, capacity %d", g.ID, n, g.MaxCapacity)
		}
		total += n
	}
	if total != patients {
		t.Errorf("admitted %d members total, want %d", total, patients)
	}
}

type failingGateway struct {
	*memstore.Store
	findErr   error
	insertErr error
	createErr error
	saveErr   error
}

func (f *failingGateway) FindOpenGroups(ctx context.Context, c admission.GroupCriteria) ([]models.ConsultationGroup, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.Store.FindOpenGroups(ctx, c)
}

func (f *failingGateway) InsertMemberIfCapacity(ctx context.Context, m models.GroupMember) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	return f.Store.InsertMemberIfCapacity(ctx, m)
}

func (f *failingGateway) CreateGroupWithMember(ctx context.Context, g models.ConsultationGroup, m models.GroupMember) (models.ConsultationGroup, error) {
	if f.createErr != nil {
		return models.ConsultationGroup{}, f.createErr
	}
	return f.Store.CreateGroupWithMember(ctx, g, m)
}

func (f *failingGateway) SaveQuestionnaire(ctx context.Context, r models.QuestionnaireReport) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	return f.Store.SaveQuestionnaire(ctx, r)
}

// Persistence failures surface as ErrAdmissionFailed wrapping the cause;
// the engine never hands back a fabricated group.
func TestAdmitOrCreate_PersistenceFailureSurfaces(t *testing.T) {
	boom := errors.New("connection reset")

	for _, tc := range []struct {
		name string
		gw   *failingGateway
	}{
		{"find fails", &failingGateway{Store: memstore.New(), findErr: boom}},
		{"create fails", &failingGateway{Store: memstore.New(), createErr: boom}},
	} {
		engine := newTestEngine(tc.gw, admission.Config{})
		group, _, err := engine.AdmitOrCreate(context.Background(),
			models.CategoryGeneralInternal, testClinician, 1, "p1", "q1", time.Now().UTC())
		if !errors.Is(err, admission.ErrAdmissionFailed) {
			t.Errorf("%s: expected ErrAdmissionFailed, got %v", tc.name, err)
		}
		if !errors.Is(err, boom) {
			t.Errorf("%s: underlying cause not wrapped: %v", tc.name, err)
		}
		if group.ID != "" {
			t.Errorf("%s: got a fabricated group: %+v", tc.name, group)
		}
	}
}

func TestAdmitOrCreate_InsertFailureSurfaces(t *testing.T) {
	boom := errors.New("write timeout")
	gw := &failingGateway{Store: memstore.New(), insertErr: boom}
	now := time.Now().UTC()
	gw.Store.SeedGroup(models.ConsultationGroup{
		Department:    testClinician.Department,
		Category:      models.CategoryGeneralInternal,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(time.Minute),
		MaxCapacity:   8,
	})

	engine := newTestEngine(gw, admission.Config{})
	_, _, err := engine.AdmitOrCreate(context.Background(),
		models.CategoryGeneralInternal, testClinician, 1, "p1", "q1", now)
	if !errors.Is(err, admission.ErrAdmissionFailed) || !errors.Is(err, boom) {
		t.Errorf("expected wrapped ErrAdmissionFailed, got %v", err)
	}
}

func TestAdmit_FullPipeline(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})
	now := time.Now().UTC()

	report := models.QuestionnaireReport{
		PatientID:    "p1",
		MainSymptoms: "38度の発熱と咳",
		Severity:     "中等度",
		Duration:     "2-3日前から",
		GeneratedAt:  now,
	}

	res, err := engine.Admit(context.Background(), report, roster.Default(), now)
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	if res.Category != models.CategoryRespiratoryInfectious {
		t.Errorf("category: got %q, want respiratory_infectious", res.Category)
	}
	if res.Priority != 3 {
		t.Errorf("priority: got %d, want 3", res.Priority)
	}
	if res.Clinician.ID != "dr_001" {
		t.Errorf("clinician: got %s, want dr_001", res.Clinician.ID)
	}
	if res.Group.Category != models.CategoryRespiratoryInfectious {
		t.Errorf("group category: got %q", res.Group.Category)
	}
	if res.Member.QuestionnaireID == "" {
		t.Error("member should reference the saved questionnaire")
	}
	if _, ok := store.Questionnaire(res.Member.QuestionnaireID); !ok {
		t.Error("questionnaire was not persisted")
	}
}

func TestAdmit_EmptyRoster(t *testing.T) {
	store := memstore.New()
	engine := newTestEngine(store, admission.Config{})

	_, err := engine.Admit(context.Background(), models.QuestionnaireReport{PatientID: "p1"}, nil, time.Now().UTC())
	if !errors.Is(err, roster.ErrNoCliniciansAvailable) {
		t.Errorf("expected ErrNoCliniciansAvailable, got %v", err)
	}
}

func TestAdmit_SaveQuestionnaireFailureSurfaces(t *testing.T) {
	boom := errors.New("insert failed")
	gw := &failingGateway{Store: memstore.New(), saveErr: boom}
	engine := newTestEngine(gw, admission.Config{})

	_, err := engine.Admit(context.Background(), models.QuestionnaireReport{PatientID: "p1"}, roster.Default(), time.Now().UTC())
	if !errors.Is(err, admission.ErrAdmissionFailed) || !errors.Is(err, boom) {
		t.Errorf("expected wrapped ErrAdmissionFailed, got %v", err)
	}
}
