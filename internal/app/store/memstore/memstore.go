// internal/app/store/memstore/memstore.go

// Package memstore is an in-memory implementation of the admission gateway.
// It backs engine and handler tests so the placement logic can be exercised
// without a datastore, and honors the same capacity semantics as the Mongo
// stores: member insertion is a single guarded check-and-insert.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/google/uuid"
)

type Store struct {
	mu             sync.Mutex
	groups         map[string]models.ConsultationGroup
	members        map[string][]models.GroupMember // keyed by group ID
	questionnaires map[string]models.QuestionnaireReport
}

func New() *Store {
	return &Store{
		groups:         make(map[string]models.ConsultationGroup),
		members:        make(map[string][]models.GroupMember),
		questionnaires: make(map[string]models.QuestionnaireReport),
	}
}

func (s *Store) FindOpenGroups(ctx context.Context, criteria admission.GroupCriteria) ([]models.ConsultationGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ConsultationGroup
	for _, g := range s.groups {
		if g.Status != models.GroupStatusWaiting {
			continue
		}
		if g.Category != criteria.Category || g.Department != criteria.Department {
			continue
		}
		// Closed interval on both ends.
		if g.ScheduledTime.Before(criteria.ScheduledFrom) || g.ScheduledTime.After(criteria.ScheduledUntil) {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}

func (s *Store) CountMembers(ctx context.Context, groupID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members[groupID]), nil
}

func (s *Store) InsertMemberIfCapacity(ctx context.Context, member models.GroupMember) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[member.GroupID]
	if !ok || g.Status != models.GroupStatusWaiting {
		return false, nil
	}
	for _, m := range s.members[member.GroupID] {
		if m.PatientID == member.PatientID {
			return false, admission.ErrDuplicateMember
		}
	}
	if len(s.members[member.GroupID]) >= g.MaxCapacity {
		return false, nil
	}

	s.members[member.GroupID] = append(s.members[member.GroupID], member)
	g.MemberCount = len(s.members[member.GroupID])
	g.UpdatedAt = time.Now().UTC()
	s.groups[member.GroupID] = g
	return true, nil
}

func (s *Store) CreateGroupWithMember(ctx context.Context, group models.ConsultationGroup, member models.GroupMember) (models.ConsultationGroup, error) {
	if err := ctx.Err(); err != nil {
		return models.ConsultationGroup{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	group.MemberCount = 1
	group.CreatedAt = now
	group.UpdatedAt = now

	member.GroupID = group.ID
	s.groups[group.ID] = group
	s.members[group.ID] = []models.GroupMember{member}
	return group, nil
}

func (s *Store) SaveQuestionnaire(ctx context.Context, report models.QuestionnaireReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	s.questionnaires[report.ID] = report
	return report.ID, nil
}

// Group returns a stored group by ID for test assertions.
func (s *Store) Group(id string) (models.ConsultationGroup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	return g, ok
}

// Groups returns every stored group sorted by scheduled time.
func (s *Store) Groups() []models.ConsultationGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConsultationGroup, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out
}

// Members returns the members of a group in join order.
func (s *Store) Members(groupID string) []models.GroupMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GroupMember(nil), s.members[groupID]...)
}

// Questionnaire returns a stored questionnaire by ID.
func (s *Store) Questionnaire(id string) (models.QuestionnaireReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.questionnaires[id]
	return q, ok
}

// Questionnaires returns the whole questionnaire lookup map (copied).
func (s *Store) Questionnaires() map[string]models.QuestionnaireReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]models.QuestionnaireReport, len(s.questionnaires))
	for k, v := range s.questionnaires {
		out[k] = v
	}
	return out
}

// SeedGroup inserts a group directly, assigning an ID if needed. Test helper.
func (s *Store) SeedGroup(group models.ConsultationGroup) models.ConsultationGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	s.groups[group.ID] = group
	return group
}

// SeedMember inserts a member directly, bypassing the capacity check. Test helper.
func (s *Store) SeedMember(member models.GroupMember) models.GroupMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	s.members[member.GroupID] = append(s.members[member.GroupID], member)
	if g, ok := s.groups[member.GroupID]; ok {
		g.MemberCount = len(s.members[member.GroupID])
		s.groups[member.GroupID] = g
	}
	return member
}
