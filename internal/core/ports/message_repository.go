package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	ListByReceiver(ctx context.Context, receiverID string) ([]*domain.Message, error)
	ListBySender(ctx context.Context, senderID string) ([]*domain.Message, error)
	// MarkRead flips is_read for the message, guarded on receiverID owning it;
	// returns domain.ErrMessageNotFound on a guard miss.
	MarkRead(ctx context.Context, messageID, receiverID string) (*domain.Message, error)
}

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	CreateMany(ctx context.Context, ns []*domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	// MarkAllRead flips every unread row for userID and returns how many rows
	// changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// PaymentRepository records settled charges.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error)
}
