package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-views/internal/db"
	"blog-views/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const viewsCollection = "views"

type viewRepository struct {
	coll *mongo.Collection
}

// NewViewRepository creates a new MongoDB implementation of ViewRepository
func NewViewRepository(db *db.MongoDB) domain.ViewRepository {
	repo := newViewRepository(db.Collection(viewsCollection))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// cooldown lookups and history scans
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "viewable_id", Value: 1},
				{Key: "viewable_type", Value: 1},
				{Key: "visitor_id", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "viewable_id", Value: 1},
				{Key: "viewable_type", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
		},
	}

	_, _ = repo.coll.Indexes().CreateMany(ctx, indexes)

	return repo
}

func newViewRepository(coll *mongo.Collection) *viewRepository {
	return &viewRepository{coll: coll}
}

func subjectFilter(subject domain.Subject) bson.M {
	return bson.M{
		"viewable_id":   subject.ID,
		"viewable_type": subject.Type,
	}
}

func (r *viewRepository) Insert(ctx context.Context, event *domain.ViewEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	now := event.ViewedAt
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	if event.UpdatedAt.IsZero() {
		event.UpdatedAt = now
	}

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert view event: %w", err)
	}

	return nil
}

func (r *viewRepository) HasViewSince(ctx context.Context, subject domain.Subject, visitorID string, since time.Time) (bool, error) {
	filter := subjectFilter(subject)
	filter["visitor_id"] = visitorID
	filter["viewed_at"] = bson.M{"$gte": since}

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.coll.FindOne(ctx, filter, opts).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up recent view: %w", err)
	}

	return true, nil
}

func (r *viewRepository) CountViews(ctx context.Context, subject domain.Subject) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, subjectFilter(subject))
	if err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return count, nil
}

func (r *viewRepository) CountUniqueVisitors(ctx context.Context, subject domain.Subject) (int64, error) {
	pipeline := []bson.M{
		{"$match": subjectFilter(subject)},
		{
			"$group": bson.M{
				"_id": "$visitor_id",
			},
		},
		{
			"$count": "unique_views",
		},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate unique views: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		UniqueViews int64 `bson:"unique_views"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode unique views result: %w", err)
		}
		return result.UniqueViews, nil
	}

	return 0, cursor.Err()
}

func (r *viewRepository) DailyCounts(ctx context.Context, subject domain.Subject, since time.Time) ([]domain.DailyViews, error) {
	match := subjectFilter(subject)
	match["viewed_at"] = bson.M{"$gte": since}

	pipeline := []bson.M{
		{"$match": match},
		{
			"$group": bson.M{
				"_id": bson.M{
					"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$viewed_at", "timezone": "UTC"},
				},
				"count": bson.M{"$sum": 1},
			},
		},
		{"$sort": bson.M{"_id": 1}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate views history: %w", err)
	}
	defer cursor.Close(ctx)

	history := make([]domain.DailyViews, 0)
	if err := cursor.All(ctx, &history); err != nil {
		return nil, fmt.Errorf("failed to decode views history: %w", err)
	}

	return history, nil
}
