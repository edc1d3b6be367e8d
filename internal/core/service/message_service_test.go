package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rightartist/marketplace/internal/core/domain"
)

type messageFixture struct {
	svc      *MessageService
	messages *stubMessageRepo
	comments *stubCommentRepo
	users    *stubUserRepo
	notes    *stubNotificationRepo
	notifier *stubNotifier
	presence *stubPresence
}

func newMessageFixture() *messageFixture {
	users := newStubUserRepo()
	messages := newStubMessageRepo()
	comments := newStubCommentRepo()
	presence := newStubPresence()
	notifications, notes, notifier := newTestNotificationService(users)
	svc := NewMessageService(messages, users, comments, notifications, notifier, presence, discardLogger)
	return &messageFixture{svc: svc, messages: messages, comments: comments, users: users, notes: notes, notifier: notifier, presence: presence}
}

// seedPitchOnBooking marks shopID as having pitched on fanID's booking post,
// matching the stub comment repo's gate convention.
func (f *messageFixture) seedPitchOnBooking(shopID, fanID string) {
	f.comments.byID["gate-"+shopID+fanID] = &domain.Comment{
		ID:        "gate-" + shopID + fanID,
		PostID:    "booking-of-" + fanID,
		UserID:    shopID,
		Content:   "pitch",
		CreatedAt: time.Now().UTC(),
	}
}

func TestMessageService_Send_ShopToDesigner(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)

	msg, err := f.svc.Send(context.Background(), actorFor(shop), designer.ID, "can you do flash sheets?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.SenderID != shop.ID || msg.ReceiverID != designer.ID {
		t.Errorf("message parties wrong: %+v", msg)
	}
	if msg.IsRead {
		t.Error("new message must start unread")
	}

	// Receiver gets a live push and a durable notification.
	if !f.notifier.pushedTo(designer.ID, "message") {
		t.Error("expected a message push to the receiver")
	}
	notes, _ := f.notes.ListByUser(context.Background(), designer.ID)
	if len(notes) != 1 {
		t.Fatalf("receiver notifications: want 1, got %d", len(notes))
	}
	if notes[0].Message != "New message from "+shop.Username {
		t.Errorf("notification text: got %q", notes[0].Message)
	}
}

func TestMessageService_Send_InvalidPairs(t *testing.T) {
	f := newMessageFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	fan2 := seedUser(f.users, "fan_2", domain.RoleFan)

	cases := []struct{ from, to string }{
		{fan.ID, designer.ID}, // fan -> designer
		{designer.ID, fan.ID}, // designer -> fan
		{fan.ID, fan2.ID},     // fan -> fan
	}
	for _, tc := range cases {
		sender, _ := f.users.FindByID(context.Background(), tc.from)
		_, err := f.svc.Send(context.Background(), actorFor(sender), tc.to, "hi")
		if !errors.Is(err, domain.ErrInvalidPair) {
			t.Errorf("%s -> %s: expected ErrInvalidPair, got %v", tc.from, tc.to, err)
		}
	}
}

func TestMessageService_Send_AdminBlockedBothWays(t *testing.T) {
	f := newMessageFixture()
	admin := seedUser(f.users, "admin_1", domain.RoleAdmin)
	shop := seedUser(f.users, "shop_1", domain.RoleShop)

	if _, err := f.svc.Send(context.Background(), actorFor(admin), shop.ID, "hi"); !errors.Is(err, domain.ErrInvalidPair) {
		t.Errorf("admin sending: expected ErrInvalidPair, got %v", err)
	}
	if _, err := f.svc.Send(context.Background(), actorFor(shop), admin.ID, "hi"); !errors.Is(err, domain.ErrInvalidPair) {
		t.Errorf("admin receiving: expected ErrInvalidPair, got %v", err)
	}
}

func TestMessageService_Send_ShopToFanRequiresPriorPitch(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	fan := seedUser(f.users, "fan_1", domain.RoleFan)

	_, err := f.svc.Send(context.Background(), actorFor(shop), fan.ID, "come to our studio")
	if !errors.Is(err, domain.ErrNoPriorPitch) {
		t.Fatalf("cold outreach: expected ErrNoPriorPitch, got %v", err)
	}

	f.seedPitchOnBooking(shop.ID, fan.ID)
	if _, err := f.svc.Send(context.Background(), actorFor(shop), fan.ID, "about your booking"); err != nil {
		t.Errorf("after pitch: unexpected error %v", err)
	}
}

func TestMessageService_Send_FanToShopNeedsNoGate(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	fan := seedUser(f.users, "fan_1", domain.RoleFan)

	if _, err := f.svc.Send(context.Background(), actorFor(fan), shop.ID, "do you have openings?"); err != nil {
		t.Errorf("fan -> shop must be open, got %v", err)
	}
}

func TestMessageService_MarkRead_ReceiverOnly(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)

	msg, err := f.svc.Send(context.Background(), actorFor(shop), designer.ID, "hi")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	// The sender cannot mark the receiver's copy read.
	if _, err := f.svc.MarkRead(context.Background(), actorFor(shop), msg.ID); !errors.Is(err, domain.ErrMessageNotFound) {
		t.Errorf("sender markRead: expected ErrMessageNotFound, got %v", err)
	}

	read, err := f.svc.MarkRead(context.Background(), actorFor(designer), msg.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !read.IsRead {
		t.Error("message must be read after MarkRead")
	}
	// Both parties get the updated message pushed.
	if !f.notifier.pushedTo(shop.ID, "message") || !f.notifier.pushedTo(designer.ID, "message") {
		t.Error("expected message pushes to both parties")
	}
}

func TestMessageService_InboxAndSent(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)

	_, _ = f.svc.Send(context.Background(), actorFor(shop), designer.ID, "one")
	_, _ = f.svc.Send(context.Background(), actorFor(designer), shop.ID, "two")

	inbox, err := f.svc.Inbox(context.Background(), actorFor(designer))
	if err != nil || len(inbox) != 1 {
		t.Errorf("designer inbox: want 1, got %d (%v)", len(inbox), err)
	}
	sent, err := f.svc.Sent(context.Background(), actorFor(designer))
	if err != nil || len(sent) != 1 {
		t.Errorf("designer sent: want 1, got %d (%v)", len(sent), err)
	}
}

func TestMessageService_Contacts(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	fanPitched := seedUser(f.users, "fan_1", domain.RoleFan)
	seedUser(f.users, "fan_2", domain.RoleFan)
	admin := seedUser(f.users, "admin_1", domain.RoleAdmin)
	f.seedPitchOnBooking(shop.ID, fanPitched.ID)

	// Shop sees every designer plus only the fans it has pitched to.
	contacts, err := f.svc.Contacts(context.Background(), actorFor(shop))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		ids[c.ID] = true
	}
	if !ids[designer.ID] || !ids[fanPitched.ID] || len(contacts) != 2 {
		t.Errorf("shop contacts wrong: %+v", contacts)
	}

	// Designer and fan see shops.
	contacts, _ = f.svc.Contacts(context.Background(), actorFor(designer))
	if len(contacts) != 1 || contacts[0].ID != shop.ID {
		t.Errorf("designer contacts wrong: %+v", contacts)
	}

	// Admin sees nobody.
	contacts, _ = f.svc.Contacts(context.Background(), actorFor(admin))
	if len(contacts) != 0 {
		t.Errorf("admin contacts must be empty, got %+v", contacts)
	}
}

func TestMessageService_Contacts_PresenceAnnotation(t *testing.T) {
	f := newMessageFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	online := seedUser(f.users, "designer_1", domain.RoleDesigner)
	offline := seedUser(f.users, "designer_2", domain.RoleDesigner)
	f.presence.online[online.ID] = true

	contacts, err := f.svc.Contacts(context.Background(), actorFor(shop))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	status := make(map[string]bool, len(contacts))
	for _, c := range contacts {
		status[c.ID] = c.Online
	}
	if !status[online.ID] {
		t.Errorf("%s should be marked online", online.ID)
	}
	if status[offline.ID] {
		t.Errorf("%s should be marked offline", offline.ID)
	}

	// A broken presence backend degrades to everyone-offline, never an error.
	f.presence.err = errors.New("redis down")
	contacts, err = f.svc.Contacts(context.Background(), actorFor(shop))
	if err != nil {
		t.Fatalf("presence failure must not fail the listing: %v", err)
	}
	for _, c := range contacts {
		if c.Online {
			t.Errorf("%s marked online despite presence failure", c.ID)
		}
	}
}
