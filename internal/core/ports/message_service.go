package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// Contact is a messageable counterpart shown in the compose picker.
type Contact struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
	Online   bool        `json:"online"`
}

// MessageService owns direct messages between counterpart roles.
type MessageService interface {
	Send(ctx context.Context, actor Actor, receiverID, content string) (*domain.Message, error)
	Inbox(ctx context.Context, actor Actor) ([]*domain.Message, error)
	Sent(ctx context.Context, actor Actor) ([]*domain.Message, error)
	MarkRead(ctx context.Context, actor Actor, messageID string) (*domain.Message, error)
	// Contacts lists who the actor may message, per the directed pair table.
	Contacts(ctx context.Context, actor Actor) ([]Contact, error)
}

// NotificationService owns durable notifications and their best-effort push.
type NotificationService interface {
	// Notify persists a notification for userID (skipped for admins), then
	// attempts a live push. Push failure is never surfaced.
	Notify(ctx context.Context, userID, message string) error
	List(ctx context.Context, actor Actor) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, actor Actor) error
}

// NotificationQueue decouples bulk notification fan-out (e.g. the new-post
// broadcast to every designer) from the request path. Per-user ordering is
// preserved by the implementation.
type NotificationQueue interface {
	Enqueue(userID, message string)
}

// BillingService owns subscription charges for shop-class accounts.
type BillingService interface {
	// Subscribe charges the role's subscription price and flips IsPaid.
	Subscribe(ctx context.Context, actor Actor, cardToken string) (*domain.Payment, error)
}
