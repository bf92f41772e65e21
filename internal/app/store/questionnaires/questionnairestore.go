// internal/app/store/questionnaires/questionnairestore.go
package questionnairestore

import (
	"context"
	"time"

	"github.com/dalemusser/triagehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store is insert-only: questionnaire reports are immutable once saved.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("questionnaires")}
}

func (s *Store) Insert(ctx context.Context, r models.QuestionnaireReport) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return "", err
	}
	return r.ID, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.QuestionnaireReport, error) {
	var r models.QuestionnaireReport
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.QuestionnaireReport{}, err
	}
	return r, nil
}

// GetByIDs returns the reports for a set of IDs keyed by ID. Missing IDs are
// simply absent from the map; the summary aggregator tolerates that.
func (s *Store) GetByIDs(ctx context.Context, ids []string) (map[string]models.QuestionnaireReport, error) {
	out := make(map[string]models.QuestionnaireReport, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var reports []models.QuestionnaireReport
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}
	for _, r := range reports {
		out[r.ID] = r
	}
	return out, nil
}
