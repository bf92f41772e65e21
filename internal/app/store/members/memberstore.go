// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/google/uuid"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_members")}
}

// Insert adds a member document. The unique index on (group_id, patient_id)
// makes a second admission of the same patient into the same group a
// detectable duplicate rather than a silent double membership.
func (s *Store) Insert(ctx context.Context, m models.GroupMember) (models.GroupMember, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMember{}, admission.ErrDuplicateMember
		}
		return models.GroupMember{}, err
	}
	return m, nil
}

// CountByGroup returns the number of members admitted to a group.
func (s *Store) CountByGroup(ctx context.Context, groupID string) (int, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ListByGroup returns a group's members ordered for the clinician view:
// highest priority first, then join order.
func (s *Store) ListByGroup(ctx context.Context, groupID string) ([]models.GroupMember, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: -1},
		{Key: "joined_at", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	var members []models.GroupMember
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Delete removes one member. Used only to unwind a failed group creation.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
