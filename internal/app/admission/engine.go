// internal/app/admission/engine.go
package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/triagehub/internal/app/roster"
	"github.com/dalemusser/triagehub/internal/app/triage"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults for the admission configuration. The window and offset come from
// the original intake flow: a fresh group is scheduled one minute out and
// stays joinable while its scheduled time sits within two minutes of the
// incoming patient's arrival.
const (
	DefaultWindow         = 2 * time.Minute
	DefaultScheduleOffset = 60 * time.Second
	DefaultCapacity       = 8
)

// maxJoinAttempts bounds how many candidate groups the engine will try to
// join before falling through to group creation. A lost capacity race is
// retried once against the next candidate.
const maxJoinAttempts = 2

// Config carries the per-deployment admission tunables.
type Config struct {
	Window          time.Duration // how far ahead a group may be scheduled and still accept admissions
	ScheduleOffset  time.Duration // how far out a newly created group is scheduled
	DefaultCapacity int           // member capacity for newly created groups
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.ScheduleOffset <= 0 {
		c.ScheduleOffset = DefaultScheduleOffset
	}
	if c.DefaultCapacity <= 0 {
		c.DefaultCapacity = DefaultCapacity
	}
	return c
}

// Engine runs the admission pipeline. It holds no mutable state of its own,
// so a single Engine is safe for any number of concurrent invocations.
type Engine struct {
	gw  Gateway
	cfg Config
	log *zap.Logger
}

// NewEngine builds an admission engine over a gateway. Zero config fields
// fall back to the defaults above.
func NewEngine(gw Gateway, cfg Config, logger *zap.Logger) *Engine {
	return &Engine{gw: gw, cfg: cfg.withDefaults(), log: logger}
}

// Result is the outcome of a full pipeline admission.
type Result struct {
	Group     models.ConsultationGroup `json:"group"`
	Member    models.GroupMember       `json:"member"`
	Category  models.Category          `json:"category"`
	Priority  int                      `json:"priority"`
	Clinician models.Clinician         `json:"clinician"`
}

// Admit runs the whole intake pipeline for one completed questionnaire:
// persist the report, categorize and score it, pick a clinician from the
// roster, then admit or create a group.
func (e *Engine) Admit(ctx context.Context, report models.QuestionnaireReport, clinicians []models.Clinician, now time.Time) (Result, error) {
	questionnaireID, err := e.gw.SaveQuestionnaire(ctx, report)
	if err != nil {
		return Result{}, fmt.Errorf("%w: save questionnaire: %w", ErrAdmissionFailed, err)
	}

	category := triage.Categorize(report.MainSymptoms)
	priority := triage.Score(report)

	clinician, err := roster.SelectBest(category, clinicians)
	if err != nil {
		return Result{}, err
	}

	group, member, err := e.AdmitOrCreate(ctx, category, clinician, priority, report.PatientID, questionnaireID, now)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Group:     group,
		Member:    member,
		Category:  category,
		Priority:  priority,
		Clinician: clinician,
	}, nil
}

// AdmitOrCreate finds an open, compatible, non-full group within the
// admission window and admits the patient, or atomically creates a new group
// with the patient as its first member.
//
// Candidates are tried in scheduled-time order. Capacity is re-validated by
// the gateway's conditional write, so losing a race to a simultaneous
// admission is not an error: the next candidate is tried, and when the
// bounded attempts are exhausted the engine falls through to creation.
// Creation-side de-duplication is best effort only; two simultaneous first
// arrivals may produce two groups, which later admissions then fill in
// scheduled order.
func (e *Engine) AdmitOrCreate(ctx context.Context, category models.Category, clinician models.Clinician, priority int, patientID, questionnaireID string, now time.Time) (models.ConsultationGroup, models.GroupMember, error) {
	now = now.UTC()
	criteria := GroupCriteria{
		Category:       category,
		Department:     clinician.Department,
		ScheduledFrom:  now,
		ScheduledUntil: now.Add(e.cfg.Window),
	}

	candidates, err := e.gw.FindOpenGroups(ctx, criteria)
	if err != nil {
		return models.ConsultationGroup{}, models.GroupMember{}, fmt.Errorf("%w: find open groups: %w", ErrAdmissionFailed, err)
	}

	attempts := 0
	for _, g := range candidates {
		if attempts >= maxJoinAttempts {
			break
		}

		count, err := e.gw.CountMembers(ctx, g.ID)
		if err != nil {
			return models.ConsultationGroup{}, models.GroupMember{}, fmt.Errorf("%w: count members: %w", ErrAdmissionFailed, err)
		}
		if count > g.MaxCapacity {
			// A missed race in the past; exclude the group and move on
			// rather than attempting repair here.
			e.log.Warn("group member count exceeds capacity",
				zap.String("group_id", g.ID),
				zap.Int("member_count", count),
				zap.Int("max_capacity", g.MaxCapacity))
			continue
		}
		if count >= g.MaxCapacity {
			continue
		}

		attempts++
		member := e.newMember(g.ID, patientID, questionnaireID, priority, now)
		ok, err := e.gw.InsertMemberIfCapacity(ctx, member)
		if errors.Is(err, ErrDuplicateMember) {
			// The patient already joined this group; report the existing
			// admission rather than failing the request.
			g.MemberCount = count
			return g, models.GroupMember{GroupID: g.ID, PatientID: patientID, QuestionnaireID: questionnaireID, Priority: priority}, nil
		}
		if err != nil {
			return models.ConsultationGroup{}, models.GroupMember{}, fmt.Errorf("%w: insert member: %w", ErrAdmissionFailed, err)
		}
		if !ok {
			// Lost the capacity race; try the next candidate.
			continue
		}

		g.MemberCount = count + 1
		return g, member, nil
	}

	group := models.ConsultationGroup{
		ClinicianID:   clinician.ID,
		ClinicianName: clinician.Name,
		Department:    clinician.Department,
		Category:      category,
		Status:        models.GroupStatusWaiting,
		ScheduledTime: now.Add(e.cfg.ScheduleOffset),
		MaxCapacity:   e.cfg.DefaultCapacity,
	}
	member := e.newMember("", patientID, questionnaireID, priority, now)

	created, err := e.gw.CreateGroupWithMember(ctx, group, member)
	if err != nil {
		return models.ConsultationGroup{}, models.GroupMember{}, fmt.Errorf("%w: create group: %w", ErrAdmissionFailed, err)
	}
	member.GroupID = created.ID
	return created, member, nil
}

func (e *Engine) newMember(groupID, patientID, questionnaireID string, priority int, now time.Time) models.GroupMember {
	return models.GroupMember{
		ID:              uuid.NewString(),
		GroupID:         groupID,
		PatientID:       patientID,
		QuestionnaireID: questionnaireID,
		Priority:        priority,
		JoinedAt:        now,
	}
}
