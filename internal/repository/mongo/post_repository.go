package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-views/internal/db"
	"blog-views/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postsCollection = "posts"

type postRepository struct {
	coll *mongo.Collection
}

// NewPostRepository creates a new MongoDB implementation of PostRepository
func NewPostRepository(db *db.MongoDB) domain.PostRepository {
	repo := newPostRepository(db.Collection(postsCollection))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return repo
}

func newPostRepository(coll *mongo.Collection) *postRepository {
	return &postRepository{coll: coll}
}

func (r *postRepository) findOne(ctx context.Context, filter bson.M) (*domain.Post, error) {
	var post domain.Post
	err := r.coll.FindOne(ctx, filter).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find error: %w", err)
	}
	return &post, nil
}

func (r *postRepository) FindActiveBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug, "is_active": true})
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *postRepository) ListActive(ctx context.Context, skip, limit int64) ([]domain.Post, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"is_active": true}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to query MongoDB: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]domain.Post, 0)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	return results, nil
}

func (r *postRepository) CountActive(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	update := bson.M{
		"$inc": bson.M{"views_count": 1},
		"$set": bson.M{"updatedAt": at.UTC()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}
