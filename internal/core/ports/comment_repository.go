package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// CommentRepository defines persistence operations for pitches and replies.
type CommentRepository interface {
	// Create inserts the comment. The backing store enforces at most one
	// top-level comment per (post, author) with a unique constraint; a
	// duplicate-key violation is returned as domain.ErrAlreadyResponded.
	Create(ctx context.Context, c *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)

	// HasTopLevel reports whether a non-withdrawn top-level comment by userID
	// exists on postID.
	HasTopLevel(ctx context.Context, postID, userID string) (bool, error)
	// HasAnyOnBookingPostsOf reports whether shopID has commented on any
	// booking post created by fanID (the shop-to-fan messaging gate).
	HasAnyOnBookingPostsOf(ctx context.Context, shopID, fanID string) (bool, error)

	Update(ctx context.Context, c *domain.Comment) error
	// Withdraw flips the withdrawn flag, guarded on it being unset; returns
	// domain.ErrWithdrawn when the guard misses.
	Withdraw(ctx context.Context, commentID string) error
}
