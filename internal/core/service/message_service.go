package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// MessageService owns direct messages between counterpart roles.
type MessageService struct {
	messages      ports.MessageRepository
	users         ports.UserRepository
	comments      ports.CommentRepository
	notifications ports.NotificationService
	notifier      ports.Notifier
	presence      ports.PresenceChecker
	logger        zerolog.Logger
}

func NewMessageService(
	messages ports.MessageRepository,
	users ports.UserRepository,
	comments ports.CommentRepository,
	notifications ports.NotificationService,
	notifier ports.Notifier,
	presence ports.PresenceChecker,
	logger zerolog.Logger,
) *MessageService {
	return &MessageService{
		messages:      messages,
		users:         users,
		comments:      comments,
		notifications: notifications,
		notifier:      notifier,
		presence:      presence,
		logger:        logger,
	}
}

// Send delivers a direct message. The sender/receiver roles must form a valid
// directed pair, admins may neither send nor receive, and a shop may only
// message a fan whose booking post it has already pitched on.
func (s *MessageService) Send(ctx context.Context, actor ports.Actor, receiverID, content string) (*domain.Message, error) {
	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	sender, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if sender.IsAdmin || receiver.IsAdmin || sender.Role == domain.RoleAdmin || receiver.Role == domain.RoleAdmin {
		return nil, domain.ErrInvalidPair
	}
	if !domain.CanMessage(sender.Role, receiver.Role) {
		return nil, domain.ErrInvalidPair
	}

	// No cold outreach: a shop reaches a fan only through that fan's booking
	// request.
	if sender.Role == domain.RoleShop && receiver.Role == domain.RoleFan {
		pitched, err := s.comments.HasAnyOnBookingPostsOf(ctx, sender.ID, receiver.ID)
		if err != nil {
			return nil, err
		}
		if !pitched {
			return nil, domain.ErrNoPriorPitch
		}
	}

	msg := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.Push(receiver.ID, ports.PushEvent{Type: "message", Data: msg})

	note := fmt.Sprintf("New message from %s", sender.Username)
	if err := s.notifications.Notify(ctx, receiver.ID, note); err != nil {
		s.logger.Warn().Err(err).Str("receiver_id", receiver.ID).Msg("failed to notify message receiver")
	}

	return msg, nil
}

func (s *MessageService) Inbox(ctx context.Context, actor ports.Actor) ([]*domain.Message, error) {
	return s.messages.ListByReceiver(ctx, actor.ID)
}

func (s *MessageService) Sent(ctx context.Context, actor ports.Actor) ([]*domain.Message, error) {
	return s.messages.ListBySender(ctx, actor.ID)
}

// MarkRead flips a received message to read. One-way; both parties get a live
// update of the changed message.
func (s *MessageService) MarkRead(ctx context.Context, actor ports.Actor, messageID string) (*domain.Message, error) {
	msg, err := s.messages.MarkRead(ctx, messageID, actor.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.Push(msg.SenderID, ports.PushEvent{Type: "message", Data: msg})
	s.notifier.Push(msg.ReceiverID, ports.PushEvent{Type: "message", Data: msg})
	return msg, nil
}

// Contacts lists who the actor may open a conversation with: designers plus
// already-pitched fans for shops, shops for designers and fans, nobody for
// admins. Each contact is annotated with live presence.
func (s *MessageService) Contacts(ctx context.Context, actor ports.Actor) ([]ports.Contact, error) {
	if actor.IsAdmin || actor.Role == domain.RoleAdmin {
		return []ports.Contact{}, nil
	}

	var out []ports.Contact
	appendRole := func(role domain.Role) error {
		users, err := s.users.FindByRole(ctx, role)
		if err != nil {
			return err
		}
		for _, u := range users {
			out = append(out, ports.Contact{ID: u.ID, Username: u.Username, Role: u.Role})
		}
		return nil
	}

	switch actor.Role {
	case domain.RoleShop:
		if err := appendRole(domain.RoleDesigner); err != nil {
			return nil, err
		}
		fans, err := s.pitchedFans(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, fans...)
	case domain.RoleDesigner, domain.RoleFan:
		if err := appendRole(domain.RoleShop); err != nil {
			return nil, err
		}
	}

	if out == nil {
		out = []ports.Contact{}
	}

	// Presence is cosmetic. A failed check marks the contact offline
	// rather than failing the listing.
	for i := range out {
		online, err := s.presence.IsOnline(ctx, out[i].ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", out[i].ID).Msg("presence check failed")
			continue
		}
		out[i].Online = online
	}
	return out, nil
}

// pitchedFans returns fans whose booking posts the shop has commented on.
func (s *MessageService) pitchedFans(ctx context.Context, shopID string) ([]ports.Contact, error) {
	fans, err := s.users.FindByRole(ctx, domain.RoleFan)
	if err != nil {
		return nil, err
	}

	var out []ports.Contact
	for _, fan := range fans {
		pitched, err := s.comments.HasAnyOnBookingPostsOf(ctx, shopID, fan.ID)
		if err != nil {
			return nil, err
		}
		if pitched {
			out = append(out, ports.Contact{ID: fan.ID, Username: fan.Username, Role: fan.Role})
		}
	}
	return out, nil
}
