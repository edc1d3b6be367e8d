package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	// Create inserts the rating. The backing store enforces one rating per
	// (rater, ratee, post) with a unique constraint; a duplicate-key
	// violation is returned as domain.ErrAlreadyRated.
	Create(ctx context.Context, r *domain.Rating) error
	ListByPost(ctx context.Context, postID string) ([]*domain.Rating, error)
	ListByRatee(ctx context.Context, rateeID string) ([]*domain.Rating, error)
}

// BadgeRepository defines persistence operations for badges.
type BadgeRepository interface {
	// Create inserts the badge; awarding the same badge twice is a no-op
	// (unique on user and name).
	Create(ctx context.Context, b *domain.Badge) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Badge, error)
}

// RateInput carries a new rating submission. The rater is always the actor.
type RateInput struct {
	PostID  string
	RateeID string
	Score   int
	Comment string
}

// ReputationService owns ratings and badge awards.
type ReputationService interface {
	Rate(ctx context.Context, actor Actor, in RateInput) (*domain.Rating, error)
	RatingsForPost(ctx context.Context, postID string) ([]*domain.Rating, error)
	RatingsForUser(ctx context.Context, userID string) ([]*domain.Rating, error)
	// Badges lists the actor's badges, first awarding any newly earned ones
	// (a designer with enough purchased designs becomes Top Designer).
	Badges(ctx context.Context, actor Actor) ([]*domain.Badge, error)
}
