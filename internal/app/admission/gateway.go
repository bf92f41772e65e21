// internal/app/admission/gateway.go

// Package admission places a patient with a completed questionnaire into a
// group consultation: it finds an open, compatible, non-full group inside the
// admission window or atomically creates one, without ever letting a group
// exceed its capacity. The engine is stateless between calls; all shared
// state lives behind the Gateway, which is what makes concurrent admissions
// against the same category/department bucket safe.
package admission

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/triagehub/internal/domain/models"
)

var (
	// ErrAdmissionFailed wraps any persistence failure during admission. The
	// engine never fabricates a placeholder group to mask one; callers decide
	// how to degrade.
	ErrAdmissionFailed = errors.New("group admission failed")

	// ErrDuplicateMember reports that the patient already holds a membership
	// in the target group. Gateways return it from InsertMemberIfCapacity;
	// the engine treats it as an already-admitted success.
	ErrDuplicateMember = errors.New("patient is already a member of this group")
)

// GroupCriteria selects candidate groups for admission. ScheduledFrom and
// ScheduledUntil bound a closed interval on the group's scheduled time, so a
// group scheduled exactly at either end still matches.
type GroupCriteria struct {
	Category       models.Category
	Department     string
	ScheduledFrom  time.Time
	ScheduledUntil time.Time
}

// Gateway is the persistence boundary for the admission engine. Any concrete
// store (Mongo in production, in-memory for tests) implements this surface.
//
// InsertMemberIfCapacity is the one operation with a strict atomicity
// requirement: it must admit the member with a single conditional write that
// re-validates capacity, never a read-then-write pair. It returns false, nil
// when the group filled (or left waiting status) concurrently.
type Gateway interface {
	FindOpenGroups(ctx context.Context, criteria GroupCriteria) ([]models.ConsultationGroup, error)
	CountMembers(ctx context.Context, groupID string) (int, error)
	InsertMemberIfCapacity(ctx context.Context, member models.GroupMember) (bool, error)
	CreateGroupWithMember(ctx context.Context, group models.ConsultationGroup, member models.GroupMember) (models.ConsultationGroup, error)
	SaveQuestionnaire(ctx context.Context, report models.QuestionnaireReport) (string, error)
}
