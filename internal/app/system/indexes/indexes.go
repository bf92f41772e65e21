// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// slotTTL bounds how long an advisory group-creation slot claim lives. Claims
// only need to cover the few seconds during which concurrent first arrivals
// race; five minutes is comfortably past any admission window.
const slotTTL = 5 * time.Minute

/*
EnsureAll is called at startup. Each ensure* function is idempotent, and
errors are aggregated so every problem is visible and startup can fail fast.

The unique index on group_members (group_id, patient_id) is load-bearing: it
is what turns a double admission of the same patient into a detectable
duplicate instead of a second membership. Likewise the unique index on
group_slots backs the best-effort creation de-duplication.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "consultation_groups: "+err.Error())
	}
	if err := ensureMembers(ctx, db); err != nil {
		problems = append(problems, "group_members: "+err.Error())
	}
	if err := ensureSlots(ctx, db); err != nil {
		problems = append(problems, "group_slots: "+err.Error())
	}
	if err := ensureQuestionnaires(ctx, db); err != nil {
		problems = append(problems, "questionnaires: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("consultation_groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Serves the open-group candidate query in scheduled order.
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "category", Value: 1},
				{Key: "department", Value: 1},
				{Key: "scheduled_time", Value: 1},
			},
			Options: options.Index().SetName("open_group_lookup"),
		},
		{
			Keys:    bson.D{{Key: "clinician_id", Value: 1}, {Key: "scheduled_time", Value: 1}},
			Options: options.Index().SetName("clinician_schedule"),
		},
	})
	return err
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("group_members").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "patient_id", Value: 1}},
			Options: options.Index().SetName("one_membership_per_patient").SetUnique(true),
		},
		{
			// Serves the clinician roster view: priority desc, join order.
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "priority", Value: -1},
				{Key: "joined_at", Value: 1},
			},
			Options: options.Index().SetName("group_roster_order"),
		},
	})
	return err
}

func ensureSlots(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("group_slots").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "department", Value: 1},
				{Key: "slot_start", Value: 1},
			},
			Options: options.Index().SetName("one_claim_per_slot").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("slot_ttl").SetExpireAfterSeconds(int32(slotTTL.Seconds())),
		},
	})
	return err
}

func ensureQuestionnaires(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("questionnaires").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "patient_id", Value: 1}, {Key: "generated_at", Value: -1}},
			Options: options.Index().SetName("patient_history"),
		},
	})
	return err
}
