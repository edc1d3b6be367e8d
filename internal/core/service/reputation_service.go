package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// ReputationService owns post-tied ratings and badge awards. Badges are
// evaluated lazily when listed, so a sale never blocks on award bookkeeping.
type ReputationService struct {
	ratings ports.RatingRepository
	badges  ports.BadgeRepository
	posts   ports.PostRepository
	users   ports.UserRepository
	designs ports.DesignRepository
	logger  zerolog.Logger
}

func NewReputationService(
	ratings ports.RatingRepository,
	badges ports.BadgeRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	designs ports.DesignRepository,
	logger zerolog.Logger,
) *ReputationService {
	return &ReputationService{
		ratings: ratings,
		badges:  badges,
		posts:   posts,
		users:   users,
		designs: designs,
		logger:  logger,
	}
}

// Rate records the actor's score of another user on a post they share. One
// rating per (rater, ratee, post); the unique index closes the race.
func (s *ReputationService) Rate(ctx context.Context, actor ports.Actor, in ports.RateInput) (*domain.Rating, error) {
	if !domain.ValidScore(in.Score) {
		return nil, domain.ErrInvalidRating
	}
	if _, err := s.posts.FindByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, in.RateeID); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		ID:        uuid.NewString(),
		RaterID:   actor.ID,
		RateeID:   in.RateeID,
		PostID:    in.PostID,
		Score:     in.Score,
		Comment:   in.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("rater_id", actor.ID).
		Str("ratee_id", in.RateeID).
		Str("post_id", in.PostID).
		Int("score", in.Score).
		Msg("rating recorded")
	return rating, nil
}

func (s *ReputationService) RatingsForPost(ctx context.Context, postID string) ([]*domain.Rating, error) {
	return s.ratings.ListByPost(ctx, postID)
}

func (s *ReputationService) RatingsForUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return s.ratings.ListByRatee(ctx, userID)
}

// Badges returns the actor's badges, awarding any newly earned ones first. A
// designer whose purchased-design count reaches the threshold becomes Top
// Designer exactly once.
func (s *ReputationService) Badges(ctx context.Context, actor ports.Actor) ([]*domain.Badge, error) {
	badges, err := s.badges.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleDesigner && !hasBadge(badges, domain.BadgeTopDesigner) {
		sold, err := s.designs.List(ctx, ports.DesignFilter{
			Status:     domain.DesignPurchased,
			DesignerID: actor.ID,
		})
		if err != nil {
			return nil, err
		}
		if len(sold) >= domain.TopDesignerThreshold {
			badge := &domain.Badge{
				ID:        uuid.NewString(),
				UserID:    actor.ID,
				Name:      domain.BadgeTopDesigner,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.badges.Create(ctx, badge); err != nil {
				return nil, err
			}
			badges = append(badges, badge)
			s.logger.Info().Str("user_id", actor.ID).Str("badge", badge.Name).Msg("badge awarded")
		}
	}

	if badges == nil {
		badges = []*domain.Badge{}
	}
	return badges, nil
}

func hasBadge(badges []*domain.Badge, name string) bool {
	for _, b := range badges {
		if b.Name == name {
			return true
		}
	}
	return false
}
