package repository

import (
	"context"
	"errors"
	"fmt"
	movieserrors "quickshow/internal/movies/errors"
	"quickshow/pkg/config"
	"quickshow/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionName = "Movies"
)

// Movie documents are keyed by the upstream catalogue's identifier, so
// lookups use the raw string _id rather than an ObjectID.
type MovieRepository interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
}

type mongoMovieRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoMovieRepository(cfg *config.Config) MovieRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMovieRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoMovieRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoMovieRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var movie model.Movie
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, movieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return &movie, nil
}
