// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/triagehub/internal/app/admission"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("consultation_groups")}
}

func (s *Store) GetByID(ctx context.Context, id string) (models.ConsultationGroup, error) {
	var g models.ConsultationGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.ConsultationGroup{}, err
	}
	return g, nil
}

// FindOpen returns waiting groups matching the criteria, scheduled-time
// ascending. The scheduled-time bounds are a closed interval.
func (s *Store) FindOpen(ctx context.Context, criteria admission.GroupCriteria) ([]models.ConsultationGroup, error) {
	filter := bson.M{
		"status":     models.GroupStatusWaiting,
		"category":   criteria.Category,
		"department": criteria.Department,
		"scheduled_time": bson.M{
			"$gte": criteria.ScheduledFrom,
			"$lte": criteria.ScheduledUntil,
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var groups []models.ConsultationGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Create inserts a new group. The ID, member count, and timestamps are
// assigned here; the first member is inserted separately by the caller.
func (s *Store) Create(ctx context.Context, g models.ConsultationGroup) (models.ConsultationGroup, error) {
	now := time.Now().UTC()
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = models.GroupStatusWaiting
	}
	g.MemberCount = 1
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.ConsultationGroup{}, err
	}
	return g, nil
}

// Delete removes a group by ID. Used only to unwind a failed group creation;
// groups that have run are retired by the session-runner, never deleted here.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ReserveSeat conditionally claims one seat in a waiting group. The filter
// re-validates status and capacity in the same write that increments the
// member count, so two concurrent reservations can never push the count past
// max_capacity. Returns false when the group is full or no longer waiting.
func (s *Store) ReserveSeat(ctx context.Context, groupID string) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    groupID,
			"status": models.GroupStatusWaiting,
			"$expr":  bson.M{"$lt": bson.A{"$member_count", "$max_capacity"}},
		},
		bson.M{
			"$inc": bson.M{"member_count": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ReleaseSeat gives back a seat claimed by ReserveSeat when the member insert
// that followed it could not complete.
func (s *Store) ReleaseSeat(ctx context.Context, groupID string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID, "member_count": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"member_count": -1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// ListByClinician returns a clinician's groups ordered by scheduled time.
func (s *Store) ListByClinician(ctx context.Context, clinicianID string) ([]models.ConsultationGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_time", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"clinician_id": clinicianID}, opts)
	if err != nil {
		return nil, err
	}
	var groups []models.ConsultationGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// FindOverCapacity returns groups whose member count exceeds their capacity,
// which indicates a missed admission race. Read-only; the integrity worker
// logs these, it does not repair them.
func (s *Store) FindOverCapacity(ctx context.Context) ([]models.ConsultationGroup, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"$expr": bson.M{"$gt": bson.A{"$member_count", "$max_capacity"}},
	})
	if err != nil {
		return nil, err
	}
	var groups []models.ConsultationGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// IsNotFound reports whether err means the group does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
