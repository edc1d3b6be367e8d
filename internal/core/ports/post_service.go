package ports

import (
	"context"
	"time"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// Actor is the authenticated caller of every operation, resolved from the
// bearer token by the auth middleware.
type Actor struct {
	ID      string
	Role    domain.Role
	IsAdmin bool
	IsPaid  bool
}

// CreatePostInput carries all data needed to open a new post.
type CreatePostInput struct {
	Title       string
	Description string
	Location    string
	FeedType    string
}

// ScheduleInput carries the appointment data for a booking post.
type ScheduleInput struct {
	ScheduledDate time.Time
	ContactInfo   domain.ContactInfo
}

// ScheduleResult returns the scheduled post plus the per-party .ics blobs.
type ScheduleResult struct {
	Post      *domain.Post
	ClientICS string
	ShopICS   string
}

// PostService owns the post lifecycle state machine: creation, pitch
// acceptance, scheduling, completion and cancellation.
type PostService interface {
	Create(ctx context.Context, actor Actor, in CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	// Feed lists open posts of the given feed, role-gated per feed type.
	Feed(ctx context.Context, actor Actor, feedType string) ([]*domain.Post, error)
	// ShopBookings lists scheduled booking posts bound to the calling shop.
	ShopBookings(ctx context.Context, actor Actor) ([]*domain.Post, error)

	// AcceptPitch binds the pitch author into the counterpart slot of a
	// booking post and moves it to accepted. Creator only; exactly one pitch
	// can ever win.
	AcceptPitch(ctx context.Context, actor Actor, postID, commentID string) (*domain.Post, error)
	Schedule(ctx context.Context, actor Actor, postID string, in ScheduleInput) (*ScheduleResult, error)
	Complete(ctx context.Context, actor Actor, postID string) (*domain.Post, error)
	Cancel(ctx context.Context, actor Actor, postID string) (*domain.Post, error)

	// EventICS returns the stored calendar blob for the calling party.
	EventICS(ctx context.Context, actor Actor, postID string) (string, error)
	// Delete hard-deletes a post. Admin only.
	Delete(ctx context.Context, actor Actor, postID string) error
}
