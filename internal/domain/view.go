package domain

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubjectType tags the kind of entity a view belongs to
type SubjectType string

const (
	SubjectPost    SubjectType = "post"
	SubjectComment SubjectType = "comment"
)

// ParseSubjectType validates a caller supplied subject type tag
func ParseSubjectType(s string) (SubjectType, error) {
	switch t := SubjectType(s); t {
	case SubjectPost, SubjectComment:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSubjectType, s)
	}
}

// Subject identifies a viewable entity
type Subject struct {
	ID   string
	Type SubjectType
}

// ViewEvent represents a single counted view of a subject
type ViewEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubjectID   string             `bson:"viewable_id" json:"viewable_id"`
	SubjectType SubjectType        `bson:"viewable_type" json:"viewable_type"`
	VisitorID   string             `bson:"visitor_id" json:"visitor_id"`
	ViewedAt    time.Time          `bson:"viewed_at" json:"viewed_at"`
	IPAddress   string             `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent   string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ViewRequest is the connection metadata of a viewer
type ViewRequest struct {
	RemoteAddr string
	UserAgent  string
}

// DailyViews is one bucket of the views history
type DailyViews struct {
	Date  string `bson:"_id" json:"date"` // YYYY-MM-DD, UTC
	Count int64  `bson:"count" json:"count"`
}

// ViewStats represents aggregated view data for a subject
type ViewStats struct {
	TotalViews  int64        `json:"totalViews"`
	UniqueViews int64        `json:"uniqueViews"`
	History     []DailyViews `json:"history"`
}
