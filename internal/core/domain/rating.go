package domain

import (
	"errors"
	"time"
)

var ErrAlreadyRated = errors.New("already rated this user for this post")
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Rating is one user's 1-5 score of another, tied to the post they worked on
// together. One rating per (rater, ratee, post), enforced by the store.
type Rating struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	RaterID   string    `json:"rater_id" bson:"rater_id"`
	RateeID   string    `json:"ratee_id" bson:"ratee_id"`
	PostID    string    `json:"post_id" bson:"post_id"`
	Score     int       `json:"score" bson:"score"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// ValidScore reports whether s is an allowed rating value.
func ValidScore(s int) bool {
	return s >= 1 && s <= 5
}

// BadgeTopDesigner is awarded once a designer has sold enough designs.
const BadgeTopDesigner = "Top Designer"

// TopDesignerThreshold is the purchased-design count that earns the badge.
const TopDesignerThreshold = 10

// Badge is a named award on an account. Awards are append-only and never
// revoked.
type Badge struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
