package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a blog article. ViewsCount is denormalized from the views collection.
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	PublishedAt *time.Time         `bson:"published_at,omitempty" json:"published_at,omitempty"`
	ViewsCount  int64              `bson:"views_count" json:"views_count"`
	ReadTime    int                `bson:"read_time" json:"read_time"`
	MediaURL    string             `bson:"media_url" json:"media_url"`
	IsActive    bool               `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Subject returns the view tracking identity of the post
func (p *Post) Subject() Subject {
	return Subject{ID: p.ID.Hex(), Type: SubjectPost}
}
