package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/api/metrics"
	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// NotificationService persists notifications and pushes them best-effort to a
// live connection. Durability comes first: the row is written before any push
// is attempted, and a missing or failed push is never an error.
type NotificationService struct {
	notifications ports.NotificationRepository
	users         ports.UserRepository
	notifier      ports.Notifier
	logger        zerolog.Logger
}

func NewNotificationService(
	notifications ports.NotificationRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		notifier:      notifier,
		logger:        logger,
	}
}

// Notify writes a notification for userID and then attempts a live push.
// Admin accounts never receive notifications.
func (s *NotificationService) Notify(ctx context.Context, userID, message string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin || user.Role == domain.RoleAdmin {
		s.logger.Debug().Str("user_id", userID).Msg("notification skipped for admin")
		return nil
	}

	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return err
	}
	metrics.NotificationsCreatedTotal.Inc()

	s.notifier.Push(userID, ports.PushEvent{Type: "notification", Data: n.Message})
	return nil
}

// List returns the actor's notifications, newest first. Admins get an empty
// list rather than an error.
func (s *NotificationService) List(ctx context.Context, actor ports.Actor) ([]*domain.Notification, error) {
	if actor.IsAdmin || actor.Role == domain.RoleAdmin {
		return []*domain.Notification{}, nil
	}
	return s.notifications.ListByUser(ctx, actor.ID)
}

// MarkAllRead flips every unread notification for the actor. The flip is
// one-way; there is no re-unread operation.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor ports.Actor) error {
	if actor.IsAdmin || actor.Role == domain.RoleAdmin {
		return nil
	}

	updated, err := s.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return err
	}
	if updated == 0 {
		return domain.ErrNotificationNotFound
	}

	s.notifier.Push(actor.ID, ports.PushEvent{Type: "notification-update", UserID: actor.ID})
	return nil
}
