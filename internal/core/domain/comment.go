package domain

import (
	"errors"
	"time"
)

var ErrCommentNotFound = errors.New("comment not found")
var ErrAlreadyResponded = errors.New("already responded to this post")
var ErrFlatFeed = errors.New("replies are not allowed on the design feed")
var ErrInvalidParent = errors.New("invalid parent comment")
var ErrWithdrawn = errors.New("pitch already withdrawn")
var ErrNotWithdrawable = errors.New("only a top-level pitch can be withdrawn")

// Comment is a pitch (top-level) or a reply on a post. Price is meaningful on
// design-feed pitches only; Withdrawn on booking-feed pitches only.
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	PostID    string    `json:"post_id" bson:"post_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	ParentID  string    `json:"parent_id,omitempty" bson:"parent_id"`
	Content   string    `json:"content" bson:"content"`
	Images    []string  `json:"images" bson:"images"`
	Price     *float64  `json:"price,omitempty" bson:"price,omitempty"`
	Withdrawn bool      `json:"withdrawn" bson:"withdrawn"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// IsReply reports whether the comment threads under a top-level pitch.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}
