package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// FeedFilter carries the query parameters for feed listings.
type FeedFilter struct {
	FeedType domain.FeedType
	Status   domain.PostStatus // empty = any status
	ShopID   string            // non-empty = scoped to the bound shop
}

// PostRepository defines persistence operations for posts. All lifecycle
// mutations are conditional updates guarded by the expected prior state; a
// guard miss surfaces as the matching Conflict sentinel, never as a silent
// overwrite.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, filter FeedFilter) ([]*domain.Post, error)

	// BindShop sets the shop slot and moves the post to accepted. The update
	// is filtered on the slot being unbound; returns domain.ErrPitchTaken when
	// another pitch won the race.
	BindShop(ctx context.Context, postID, shopID string) error
	// BindArtist sets the artist slot on a design post and moves it to
	// accepted; returns domain.ErrPitchTaken when already bound.
	BindArtist(ctx context.Context, postID, artistID string) error

	// Schedule attaches booking details and moves accepted -> scheduled;
	// returns domain.ErrAlreadyScheduled when the status guard misses.
	Schedule(ctx context.Context, postID string, details *domain.BookingDetails) error
	// SetStatus moves from -> to; returns domain.ErrInvalidTransition when the
	// post is no longer in the from status.
	SetStatus(ctx context.Context, postID string, from, to domain.PostStatus) error

	// Delete hard-deletes a post and cascades to its comments (admin only at
	// the service layer).
	Delete(ctx context.Context, postID string) error
}
