// internal/app/store/gateway.go

// Package store composes the per-collection Mongo stores into the admission
// gateway used in production.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	groupstore "github.com/dalemusser/triagehub/internal/app/store/groups"
	memberstore "github.com/dalemusser/triagehub/internal/app/store/members"
	questionnairestore "github.com/dalemusser/triagehub/internal/app/store/questionnaires"
	slotstore "github.com/dalemusser/triagehub/internal/app/store/slots"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Gateway implements admission.Gateway over MongoDB.
type Gateway struct {
	Groups         *groupstore.Store
	Members        *memberstore.Store
	Questionnaires *questionnairestore.Store
	Slots          *slotstore.Store
	Log            *zap.Logger
}

// NewGateway wires the per-collection stores over one database.
func NewGateway(db *mongo.Database, logger *zap.Logger) *Gateway {
	return &Gateway{
		Groups:         groupstore.New(db),
		Members:        memberstore.New(db),
		Questionnaires: questionnairestore.New(db),
		Slots:          slotstore.New(db),
		Log:            logger,
	}
}

func (g *Gateway) FindOpenGroups(ctx context.Context, criteria admission.GroupCriteria) ([]models.ConsultationGroup, error) {
	return g.Groups.FindOpen(ctx, criteria)
}

func (g *Gateway) CountMembers(ctx context.Context, groupID string) (int, error) {
	return g.Members.CountByGroup(ctx, groupID)
}

// InsertMemberIfCapacity admits a member in two steps that together preserve
// the capacity invariant: a conditional seat reservation on the group
// document (the single atomic write that re-validates capacity), then the
// member insert. If the insert cannot complete the seat is released, so the
// counter never drifts above the real membership.
func (g *Gateway) InsertMemberIfCapacity(ctx context.Context, member models.GroupMember) (bool, error) {
	reserved, err := g.Groups.ReserveSeat(ctx, member.GroupID)
	if err != nil {
		return false, err
	}
	if !reserved {
		return false, nil
	}

	if _, err := g.Members.Insert(ctx, member); err != nil {
		if relErr := g.Groups.ReleaseSeat(ctx, member.GroupID); relErr != nil {
			g.Log.Error("failed to release reserved seat",
				zap.String("group_id", member.GroupID), zap.Error(relErr))
		}
		return false, err
	}
	return true, nil
}

// CreateGroupWithMember creates a group and its first member as one logical
// step. A short-lived advisory slot claim on (category, department, time
// bucket) soft-dedups concurrent first arrivals: the claim loser re-checks
// for a group the winner just created and joins it when it has room. This
// de-duplication is best effort; simultaneous creators can still produce two
// groups, which later admissions then fill in scheduled order.
func (g *Gateway) CreateGroupWithMember(ctx context.Context, group models.ConsultationGroup, member models.GroupMember) (models.ConsultationGroup, error) {
	bucket := group.ScheduledTime.UTC().Truncate(time.Minute)
	err := g.Slots.Claim(ctx, group.Category, group.Department, bucket)
	if errors.Is(err, slotstore.ErrSlotTaken) {
		if joined, ok := g.joinRacingGroup(ctx, group, member); ok {
			return joined, nil
		}
	} else if err != nil {
		return models.ConsultationGroup{}, err
	}

	created, err := g.Groups.Create(ctx, group)
	if err != nil {
		return models.ConsultationGroup{}, err
	}

	member.GroupID = created.ID
	if _, err := g.Members.Insert(ctx, member); err != nil {
		if delErr := g.Groups.Delete(ctx, created.ID); delErr != nil {
			g.Log.Error("failed to unwind group after member insert failure",
				zap.String("group_id", created.ID), zap.Error(delErr))
		}
		return models.ConsultationGroup{}, err
	}
	return created, nil
}

// joinRacingGroup re-queries for a group another admission created moments
// ago and tries to take a seat in it. Failures here only mean falling back
// to creating our own group.
func (g *Gateway) joinRacingGroup(ctx context.Context, group models.ConsultationGroup, member models.GroupMember) (models.ConsultationGroup, bool) {
	candidates, err := g.Groups.FindOpen(ctx, admission.GroupCriteria{
		Category:       group.Category,
		Department:     group.Department,
		ScheduledFrom:  group.ScheduledTime.Add(-time.Minute),
		ScheduledUntil: group.ScheduledTime.Add(time.Minute),
	})
	if err != nil || len(candidates) == 0 {
		return models.ConsultationGroup{}, false
	}

	candidate := candidates[0]
	member.GroupID = candidate.ID
	ok, err := g.InsertMemberIfCapacity(ctx, member)
	if err != nil || !ok {
		return models.ConsultationGroup{}, false
	}
	candidate.MemberCount++
	return candidate, true
}

func (g *Gateway) SaveQuestionnaire(ctx context.Context, report models.QuestionnaireReport) (string, error) {
	return g.Questionnaires.Insert(ctx, report)
}
