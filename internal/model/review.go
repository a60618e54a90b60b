package model

import "time"

// Review is a user's rating of a catalog movie.  MovieID is the catalog's id,
// kept as a string because it is never joined locally.
type Review struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	MovieID   string    `json:"movieId" bson:"movieId"`
	Rating    int       `json:"rating" bson:"rating"`
	Content   string    `json:"content" bson:"content"`
	Deleted   bool      `json:"deleted" bson:"deleted"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	User *Author `json:"user,omitempty" bson:"-"` // joined on list
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Comment belongs to a review.  HasParent is reserved for threaded replies.
type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	ReviewID  string    `json:"reviewId" bson:"reviewId"`
	UserID    string    `json:"userId" bson:"userId"`
	Content   string    `json:"content" bson:"content"`
	HasParent bool      `json:"hasParent" bson:"hasParent"`
	Deleted   bool      `json:"deleted" bson:"deleted"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	User *Author `json:"user,omitempty" bson:"-"`
}
