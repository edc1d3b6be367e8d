package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// SubmitCommentInput carries a new pitch or reply.
type SubmitCommentInput struct {
	PostID   string
	Content  string
	ParentID string   // replies, booking feed only
	Price    *float64 // design feed only
	Images   []string
}

// EditCommentInput carries an edit to an existing comment.
type EditCommentInput struct {
	CommentID string
	Content   string
	Price     *float64 // kept only when the parent post is design feed
}

// EngagementService decides who may respond to a post and how, and owns pitch
// withdrawal.
type EngagementService interface {
	Submit(ctx context.Context, actor Actor, in SubmitCommentInput) (*domain.Comment, error)
	Edit(ctx context.Context, actor Actor, in EditCommentInput) (*domain.Comment, error)
	// Withdraw retracts a top-level booking pitch. Irreversible; blocked once
	// the post has a bound shop.
	Withdraw(ctx context.Context, actor Actor, commentID string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
}
