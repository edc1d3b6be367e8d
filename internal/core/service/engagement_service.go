package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/api/metrics"
	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// EngagementService decides whether an actor may respond to a post, and owns
// comment editing and pitch withdrawal.
type EngagementService struct {
	comments      ports.CommentRepository
	posts         ports.PostRepository
	users         ports.UserRepository
	notifications ports.NotificationService
	logger        zerolog.Logger
}

func NewEngagementService(
	comments ports.CommentRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	notifications ports.NotificationService,
	logger zerolog.Logger,
) *EngagementService {
	return &EngagementService{
		comments:      comments,
		posts:         posts,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

// canAuthor is the allowed-authoring set per feed type: designers and shops
// pitch on the design feed, shops pitch on fan-created booking posts.
func canAuthor(role domain.Role, feed domain.FeedType) bool {
	switch feed {
	case domain.FeedDesign:
		return role == domain.RoleDesigner || role == domain.RoleShop
	case domain.FeedBooking:
		return role == domain.RoleShop
	}
	return false
}

// Submit validates the (actor, post, parent) triple and persists a new pitch
// or reply, notifying the post's counterpart owner on success.
func (s *EngagementService) Submit(ctx context.Context, actor ports.Actor, in ports.SubmitCommentInput) (*domain.Comment, error) {
	post, err := s.posts.FindByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if !canAuthor(actor.Role, post.FeedType) {
		return nil, domain.ErrForbidden
	}

	if in.ParentID != "" {
		if post.FeedType == domain.FeedDesign {
			return nil, domain.ErrFlatFeed
		}
		// Replies thread under the actor's own top-level pitch only.
		parent, err := s.comments.FindByID(ctx, in.ParentID)
		if err != nil {
			return nil, domain.ErrInvalidParent
		}
		if parent.PostID != post.ID || parent.UserID != actor.ID || parent.IsReply() {
			return nil, domain.ErrInvalidParent
		}
	} else {
		// Friendly pre-check; the unique index closes the race.
		responded, err := s.comments.HasTopLevel(ctx, post.ID, actor.ID)
		if err != nil {
			return nil, err
		}
		if responded {
			return nil, domain.ErrAlreadyResponded
		}
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    actor.ID,
		ParentID:  in.ParentID,
		Content:   in.Content,
		Images:    emptyIfNil(in.Images),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if post.FeedType == domain.FeedDesign {
		comment.Price = in.Price
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	metrics.CommentsSubmittedTotal.WithLabelValues(string(post.FeedType)).Inc()

	s.notifyPostOwner(ctx, actor, post)
	return comment, nil
}

// notifyPostOwner tells the counterpart owner about a new comment. Failure to
// notify does not fail the submission.
func (s *EngagementService) notifyPostOwner(ctx context.Context, actor ports.Actor, post *domain.Post) {
	ownerID := post.ClientID
	if post.FeedType == domain.FeedDesign {
		ownerID = post.ShopID
	}
	if ownerID == "" || ownerID == actor.ID {
		return
	}

	author, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", actor.ID).Msg("comment author lookup failed, skipping notification")
		return
	}

	msg := fmt.Sprintf("New comment on your %s post %q by %s", post.FeedType, post.Title, author.Username)
	if err := s.notifications.Notify(ctx, ownerID, msg); err != nil {
		s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("failed to notify post owner")
	}
}

// Edit updates a comment's content. Price changes are kept only on
// design-feed comments.
func (s *EngagementService) Edit(ctx context.Context, actor ports.Actor, in ports.EditCommentInput) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}

	post, err := s.posts.FindByID(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if post.FeedType == domain.FeedDesign {
		comment.Price = in.Price
	}
	comment.UpdatedAt = time.Now().UTC()

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Withdraw retracts a top-level booking pitch. Blocked once any pitch on the
// post has been accepted, and irreversible afterwards.
func (s *EngagementService) Withdraw(ctx context.Context, actor ports.Actor, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if comment.IsReply() {
		return nil, domain.ErrNotWithdrawable
	}
	if comment.Withdrawn {
		return nil, domain.ErrWithdrawn
	}

	post, err := s.posts.FindByID(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}
	if post.PitchBound() {
		return nil, domain.ErrPitchTaken
	}

	if err := s.comments.Withdraw(ctx, commentID); err != nil {
		return nil, err
	}

	comment.Withdrawn = true
	return comment, nil
}

func (s *EngagementService) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
