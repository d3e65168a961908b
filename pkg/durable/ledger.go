package durable

import (
	"context"
	"errors"
	"fmt"
	"quickshow/pkg/config"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Step_runs"

	statusSleeping  = "sleeping"
	statusCompleted = "completed"
)

// Ledger records what an invocation has already done, so that a
// redelivered event skips completed steps instead of repeating their
// side effects.
type Ledger interface {
	// Completed reports whether the step finished in an earlier delivery,
	// along with the result recorded at completion time.
	Completed(ctx context.Context, invocationID, step string) (bool, []byte, error)

	// MarkCompleted records the step as finished, memoizing its result so
	// later steps of a redelivered invocation see the same value.
	MarkCompleted(ctx context.Context, invocationID, step string, result []byte) error

	// RecordWake stores the deadline on first call and returns whichever
	// deadline is on record, so a sleep is always measured from the first
	// delivery of the event.
	RecordWake(ctx context.Context, invocationID, step string, deadline time.Time) (time.Time, error)
}

type stepRun struct {
	ID          string    `bson:"_id"`
	Invocation  string    `bson:"invocation"`
	Step        string    `bson:"step"`
	Status      string    `bson:"status"`
	Result      []byte    `bson:"result,omitempty"`
	WakeAt      time.Time `bson:"wake_at,omitempty"`
	CompletedAt time.Time `bson:"completed_at,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

type mongoLedger struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLedger(cfg *config.Config) Ledger {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLedger{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func runID(invocationID, step string) string {
	return invocationID + ":" + step
}

func (l *mongoLedger) Completed(ctx context.Context, invocationID, step string) (bool, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.ReadTimeout)
	defer cancel()

	var run stepRun
	err := l.collection.FindOne(ctx, bson.M{"_id": runID(invocationID, step)}).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil, nil
		}
		return false, nil, fmt.Errorf("failed to look up step run: %w", err)
	}
	return run.Status == statusCompleted, run.Result, nil
}

func (l *mongoLedger) MarkCompleted(ctx context.Context, invocationID, step string, result []byte) error {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status":       statusCompleted,
		"completed_at": now,
	}
	if len(result) > 0 {
		set["result"] = result
	}
	_, err := l.collection.UpdateOne(ctx,
		bson.M{"_id": runID(invocationID, step)},
		bson.M{
			"$set": set,
			"$setOnInsert": bson.M{
				"invocation": invocationID,
				"step":       step,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to record step completion: %w", err)
	}
	return nil
}

func (l *mongoLedger) RecordWake(ctx context.Context, invocationID, step string, deadline time.Time) (time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	var run stepRun
	err := l.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": runID(invocationID, step)},
		bson.M{
			"$setOnInsert": bson.M{
				"invocation": invocationID,
				"step":       step,
				"status":     statusSleeping,
				"wake_at":    deadline.UTC().Truncate(time.Millisecond),
				"created_at": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&run)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to record wake deadline: %w", err)
	}
	return run.WakeAt, nil
}
