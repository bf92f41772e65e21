// internal/app/store/slots/slotstore.go
package slotstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/triagehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotTaken means another admission already claimed the creation slot for
// this category/department/time bucket.
var ErrSlotTaken = errors.New("group creation slot already claimed")

// Store manages short-lived advisory claims that reduce duplicate group
// creation when several first arrivals race on the same bucket. Claims are
// best effort only: losing one is a hint to re-check for an existing group,
// never a hard lock. Documents expire via a TTL index.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_slots")}
}

// Claim records (category, department, bucket) as taken. The unique index on
// those three fields turns a concurrent duplicate claim into ErrSlotTaken.
func (s *Store) Claim(ctx context.Context, category models.Category, department string, bucket time.Time) error {
	doc := bson.M{
		"category":   category,
		"department": department,
		"slot_start": bucket.UTC(),
		"created_at": time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}
