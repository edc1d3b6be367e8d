package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rightartist/marketplace/internal/core/domain"
)

func TestNotificationService_Notify_PersistsThenPushes(t *testing.T) {
	users := newStubUserRepo()
	fan := seedUser(users, "fan_1", domain.RoleFan)
	svc, repo, notifier := newTestNotificationService(users)

	if err := svc.Notify(context.Background(), fan.ID, "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.ListByUser(context.Background(), fan.ID)
	if len(stored) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(stored))
	}
	if stored[0].Message != "hello" {
		t.Errorf("message: want %q, got %q", "hello", stored[0].Message)
	}
	if stored[0].IsRead {
		t.Error("new notification must start unread")
	}
	if !notifier.pushedTo(fan.ID, "notification") {
		t.Error("expected a push of type notification")
	}
}

func TestNotificationService_Notify_SkipsAdmin(t *testing.T) {
	users := newStubUserRepo()
	admin := seedUser(users, "admin_1", domain.RoleAdmin)
	svc, repo, notifier := newTestNotificationService(users)

	if err := svc.Notify(context.Background(), admin.ID, "hello"); err != nil {
		t.Fatalf("notify for admin must be a silent no-op, got %v", err)
	}

	stored, _ := repo.ListByUser(context.Background(), admin.ID)
	if len(stored) != 0 {
		t.Errorf("admin must never receive notifications, got %d", len(stored))
	}
	if len(notifier.pushes) != 0 {
		t.Error("no push expected for admin")
	}
}

func TestNotificationService_Notify_UnknownUser(t *testing.T) {
	users := newStubUserRepo()
	svc, _, _ := newTestNotificationService(users)

	err := svc.Notify(context.Background(), "ghost", "hello")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNotificationService_Notify_RepoFailureSkipsPush(t *testing.T) {
	users := newStubUserRepo()
	fan := seedUser(users, "fan_1", domain.RoleFan)
	repo := newStubNotificationRepo()
	repo.createErr = errors.New("db unavailable")
	notifier := &stubNotifier{}
	svc := NewNotificationService(repo, users, notifier, discardLogger)

	if err := svc.Notify(context.Background(), fan.ID, "hello"); err == nil {
		t.Fatal("expected error when persistence fails")
	}
	// Durability first: no push may happen without a stored row.
	if len(notifier.pushes) != 0 {
		t.Error("push must not be attempted when the write failed")
	}
}

func TestNotificationService_List_AdminGetsEmpty(t *testing.T) {
	users := newStubUserRepo()
	admin := seedUser(users, "admin_1", domain.RoleAdmin)
	svc, _, _ := newTestNotificationService(users)

	out, err := svc.List(context.Background(), actorFor(admin))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("admin list must be empty, got %d", len(out))
	}
}

func TestNotificationService_MarkAllRead_FlipsAndPushes(t *testing.T) {
	users := newStubUserRepo()
	fan := seedUser(users, "fan_1", domain.RoleFan)
	svc, repo, notifier := newTestNotificationService(users)

	_ = svc.Notify(context.Background(), fan.ID, "one")
	_ = svc.Notify(context.Background(), fan.ID, "two")

	if err := svc.MarkAllRead(context.Background(), actorFor(fan)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := repo.ListByUser(context.Background(), fan.ID)
	for i, n := range stored {
		if !n.IsRead {
			t.Errorf("notification %d still unread", i)
		}
	}
	if !notifier.pushedTo(fan.ID, "notification-update") {
		t.Error("expected a notification-update push")
	}
}

func TestNotificationService_MarkAllRead_NothingUnread(t *testing.T) {
	users := newStubUserRepo()
	fan := seedUser(users, "fan_1", domain.RoleFan)
	svc, _, _ := newTestNotificationService(users)

	err := svc.MarkAllRead(context.Background(), actorFor(fan))
	if !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound, got %v", err)
	}
}
