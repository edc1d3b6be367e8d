package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/api/metrics"
	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// DesignService owns the design-commission sub-lifecycle: pitch acceptance,
// designer-only stage progression, and terminal purchase.
type DesignService struct {
	designs       ports.DesignRepository
	comments      ports.CommentRepository
	posts         ports.PostRepository
	users         ports.UserRepository
	payments      ports.PaymentRepository
	messages      ports.MessageRepository
	charger       ports.CardCharger
	notifications ports.NotificationService
	notifier      ports.Notifier
	logger        zerolog.Logger
}

func NewDesignService(
	designs ports.DesignRepository,
	comments ports.CommentRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	payments ports.PaymentRepository,
	messages ports.MessageRepository,
	charger ports.CardCharger,
	notifications ports.NotificationService,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *DesignService {
	return &DesignService{
		designs:       designs,
		comments:      comments,
		posts:         posts,
		users:         users,
		payments:      payments,
		messages:      messages,
		charger:       charger,
		notifications: notifications,
		notifier:      notifier,
		logger:        logger,
	}
}

// Accept turns a design-feed pitch into a Design record. Shop owner only; one
// design per comment (unique index) and one accepted pitch per post
// (conditional artist bind).
func (s *DesignService) Accept(ctx context.Context, actor ports.Actor, commentID string) (*domain.Design, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.FindByID(ctx, comment.PostID)
	if err != nil {
		return nil, err
	}
	if post.FeedType != domain.FeedDesign {
		return nil, fmt.Errorf("%w: comment must belong to a design feed post", domain.ErrInvalidTransition)
	}
	if post.ShopID != actor.ID {
		return nil, domain.ErrForbidden
	}

	designer, err := s.users.FindByID(ctx, comment.UserID)
	if err != nil {
		return nil, err
	}
	if designer.Role != domain.RoleDesigner {
		return nil, fmt.Errorf("%w: comment must belong to a designer", domain.ErrInvalidTransition)
	}

	price := 0.0
	if comment.Price != nil {
		price = *comment.Price
	}

	now := time.Now().UTC()
	design := &domain.Design{
		ID:         uuid.NewString(),
		DesignerID: designer.ID,
		ShopID:     actor.ID,
		PostID:     post.ID,
		CommentID:  comment.ID,
		Stage:      domain.StageInitialSketch,
		Status:     domain.DesignPending,
		Price:      price,
		Images:     []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The conditional artist bind is the accept decision: the post can only
	// ever accept one pitch, and a losing accept must not leave a Design row
	// behind. Only the winner inserts its Design.
	if err := s.posts.BindArtist(ctx, post.ID, designer.ID); err != nil {
		return nil, err
	}
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(domain.StatusAccepted)).Inc()

	// Unique index on comment_id backs this up: one Design per pitch, ever.
	if err := s.designs.Create(ctx, design); err != nil {
		return nil, err
	}

	shop, err := s.users.FindByID(ctx, actor.ID)
	if err == nil {
		msg := fmt.Sprintf("Your design for %q has been accepted by %s", post.Title, shop.Username)
		if err := s.notifications.Notify(ctx, designer.ID, msg); err != nil {
			s.logger.Warn().Err(err).Str("designer_id", designer.ID).Msg("failed to notify designer")
		}
	}

	s.logger.Info().Str("design_id", design.ID).Str("comment_id", comment.ID).Msg("design accepted")
	return design, nil
}

// AdvanceStage moves a pending design strictly forward through the stage
// enum. Designer only. New images are appended, and the shop is told both by
// notification and by a design-progress message.
func (s *DesignService) AdvanceStage(ctx context.Context, actor ports.Actor, in ports.AdvanceStageInput) (*domain.Design, error) {
	stage := domain.DesignStage(in.Stage)
	if !stage.Valid() {
		return nil, domain.ErrInvalidStage
	}

	design, err := s.designs.FindByID(ctx, in.DesignID)
	if err != nil {
		return nil, err
	}
	if design.DesignerID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if design.Status != domain.DesignPending {
		return nil, domain.ErrAlreadyPurchased
	}
	if !design.Stage.CanAdvanceTo(stage) {
		return nil, fmt.Errorf("%w: cannot move from %s to %s", domain.ErrInvalidStage, design.Stage, stage)
	}

	if err := s.designs.SetStage(ctx, design.ID, stage, in.Images); err != nil {
		return nil, err
	}
	design.Stage = stage
	design.Images = append(design.Images, in.Images...)
	design.UpdatedAt = time.Now().UTC()

	designer, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return design, nil
	}

	note := fmt.Sprintf("Design stage updated to %q by %s", stage, designer.Username)
	if err := s.notifications.Notify(ctx, design.ShopID, note); err != nil {
		s.logger.Warn().Err(err).Str("shop_id", design.ShopID).Msg("failed to notify shop of stage update")
	}
	s.sendStageMessage(ctx, design, designer)

	return design, nil
}

// sendStageMessage records the progress update in the design conversation.
func (s *DesignService) sendStageMessage(ctx context.Context, design *domain.Design, designer *domain.User) {
	msg := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   design.DesignerID,
		ReceiverID: design.ShopID,
		Content:    fmt.Sprintf("%s moved the design to %s.", designer.Username, design.Stage),
		DesignID:   design.ID,
		Stage:      design.Stage,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str("design_id", design.ID).Msg("failed to create stage message")
		return
	}
	s.notifier.Push(design.ShopID, ports.PushEvent{Type: "message", Data: msg})
}

// Purchase charges the shop for a final design and marks it purchased.
// Terminal: a purchased design accepts no further stage or purchase calls.
func (s *DesignService) Purchase(ctx context.Context, actor ports.Actor, designID, cardToken string) (*domain.Design, error) {
	design, err := s.designs.FindByID(ctx, designID)
	if err != nil {
		return nil, err
	}
	if design.ShopID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if design.Status != domain.DesignPending {
		return nil, domain.ErrAlreadyPurchased
	}
	if design.Stage != domain.StageFinalDesign {
		return nil, domain.ErrNotFinalDesign
	}

	ref, err := s.charger.Charge(ctx, cardToken, toCents(design.Price), "design-"+design.ID)
	if err != nil {
		return nil, err
	}

	// Pending guard: a concurrent purchase of the same design loses here.
	if err := s.designs.MarkPurchased(ctx, design.ID); err != nil {
		return nil, err
	}
	design.Status = domain.DesignPurchased
	design.UpdatedAt = time.Now().UTC()

	payment := &domain.Payment{
		ID:             uuid.NewString(),
		UserID:         actor.ID,
		Amount:         design.Price,
		Type:           domain.PaymentDesignPurchase,
		Status:         domain.PaymentCompleted,
		TransactionRef: ref,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		s.logger.Error().Err(err).Str("design_id", design.ID).Msg("failed to record design payment")
	}
	metrics.DesignsPurchasedTotal.Inc()

	shop, err := s.users.FindByID(ctx, actor.ID)
	if err == nil {
		msg := fmt.Sprintf("Your design has been purchased by %s for $%.2f", shop.Username, design.Price)
		if err := s.notifications.Notify(ctx, design.DesignerID, msg); err != nil {
			s.logger.Warn().Err(err).Str("designer_id", design.DesignerID).Msg("failed to notify designer of purchase")
		}
	}

	s.logger.Info().Str("design_id", design.ID).Float64("amount", design.Price).Msg("design purchased")
	return design, nil
}

// ListPending returns the actor's in-progress designs: the designer's own, or
// the shop's commissioned ones.
func (s *DesignService) ListPending(ctx context.Context, actor ports.Actor) ([]*domain.Design, error) {
	filter := ports.DesignFilter{Status: domain.DesignPending}
	switch actor.Role {
	case domain.RoleDesigner:
		filter.DesignerID = actor.ID
	case domain.RoleShop, domain.RoleElite:
		filter.ShopID = actor.ID
	default:
		return nil, domain.ErrForbidden
	}
	return s.designs.List(ctx, filter)
}

// ListPurchased returns designs the calling shop has bought.
func (s *DesignService) ListPurchased(ctx context.Context, actor ports.Actor) ([]*domain.Design, error) {
	if !actor.Role.IsShopClass() {
		return nil, domain.ErrForbidden
	}
	return s.designs.List(ctx, ports.DesignFilter{Status: domain.DesignPurchased, ShopID: actor.ID})
}

// ListSold returns designs the calling designer has sold.
func (s *DesignService) ListSold(ctx context.Context, actor ports.Actor) ([]*domain.Design, error) {
	if actor.Role != domain.RoleDesigner {
		return nil, domain.ErrForbidden
	}
	return s.designs.List(ctx, ports.DesignFilter{Status: domain.DesignPurchased, DesignerID: actor.ID})
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
