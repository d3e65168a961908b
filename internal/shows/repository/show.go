package repository

import (
	"context"
	"errors"
	"fmt"
	showserrors "quickshow/internal/shows/errors"
	"quickshow/pkg/config"
	"quickshow/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Shows"
)

type ShowRepository interface {
	FindByID(ctx context.Context, id string) (*model.Show, error)

	// FindInWindow returns shows scheduled inside [start, end], both
	// bounds inclusive, ordered by start time.
	FindInWindow(ctx context.Context, start, end time.Time) ([]*model.Show, error)

	// ReleaseSeats removes the given seat labels from the show's
	// occupied-seats map. Labels already absent are no-ops, so the call
	// is safe to repeat.
	ReleaseSeats(ctx context.Context, showID string, seats []string) error
}

type mongoShowRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoShowRepository(cfg *config.Config) ShowRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoShowRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoShowRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoShowRepository) FindByID(ctx context.Context, id string) (*model.Show, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", showserrors.ErrInvalidID, id)
	}

	var show model.Show
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&show)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, showserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find show: %w", err)
	}

	return &show, nil
}

func (r *mongoShowRepository) FindInWindow(ctx context.Context, start, end time.Time) ([]*model.Show, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"show_date_time": bson.M{"$gte": start, "$lte": end},
	}

	opts := options.Find().SetSort(bson.D{{Key: "show_date_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find shows in window: %w", err)
	}
	defer cursor.Close(ctx)

	var shows []*model.Show
	if err = cursor.All(ctx, &shows); err != nil {
		return nil, fmt.Errorf("failed to decode shows: %w", err)
	}

	return shows, nil
}

func (r *mongoShowRepository) ReleaseSeats(ctx context.Context, showID string, seats []string) error {
	if len(seats) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(showID)
	if err != nil {
		return fmt.Errorf("%w: %s", showserrors.ErrInvalidID, showID)
	}

	unset := bson.M{}
	for _, seat := range seats {
		unset["occupied_seats."+seat] = ""
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$unset": unset})
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	if result.MatchedCount == 0 {
		return showserrors.ErrNotFound
	}

	return nil
}
