package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

type engagementFixture struct {
	svc      *EngagementService
	posts    *stubPostRepo
	comments *stubCommentRepo
	users    *stubUserRepo
	notes    *stubNotificationRepo
}

func newEngagementFixture() *engagementFixture {
	users := newStubUserRepo()
	posts := newStubPostRepo()
	comments := newStubCommentRepo()
	notifications, notes, _ := newTestNotificationService(users)
	return &engagementFixture{
		svc:      NewEngagementService(comments, posts, users, notifications, discardLogger),
		posts:    posts,
		comments: comments,
		users:    users,
		notes:    notes,
	}
}

func (f *engagementFixture) seedDesignPost(shopID string) *domain.Post {
	p := domain.NewDesignPost("post_d1", shopID, "Dragon sleeve", "full sleeve", "Austin", time.Now().UTC())
	f.posts.byID[p.ID] = p
	return p
}

func (f *engagementFixture) seedBookingPost(fanID string) *domain.Post {
	p := domain.NewBookingPost("post_b1", fanID, "First tattoo", "small piece", "Austin", time.Now().UTC())
	f.posts.byID[p.ID] = p
	return p
}

func price(v float64) *float64 { return &v }

func TestEngagement_Submit_DesignerPitchOnDesignFeed(t *testing.T) {
	f := newEngagementFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	post := f.seedDesignPost(shop.ID)

	c, err := f.svc.Submit(context.Background(), actorFor(designer), ports.SubmitCommentInput{
		PostID:  post.ID,
		Content: "I can do this in blackwork",
		Price:   price(250),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Price == nil || *c.Price != 250 {
		t.Error("design-feed pitch must keep its price")
	}

	// The shop owner is notified about the new pitch.
	notes, _ := f.notes.ListByUser(context.Background(), shop.ID)
	if len(notes) != 1 {
		t.Errorf("expected 1 notification for the shop, got %d", len(notes))
	}
}

func TestEngagement_Submit_FanCannotPitch(t *testing.T) {
	f := newEngagementFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	post := f.seedDesignPost(shop.ID)

	_, err := f.svc.Submit(context.Background(), actorFor(fan), ports.SubmitCommentInput{
		PostID:  post.ID,
		Content: "looks cool",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestEngagement_Submit_DesignerCannotPitchBookingFeed(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	post := f.seedBookingPost(fan.ID)

	_, err := f.svc.Submit(context.Background(), actorFor(designer), ports.SubmitCommentInput{
		PostID:  post.ID,
		Content: "pick me",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestEngagement_Submit_SecondTopLevelRejected(t *testing.T) {
	f := newEngagementFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	post := f.seedDesignPost(shop.ID)

	in := ports.SubmitCommentInput{PostID: post.ID, Content: "pitch", Price: price(100)}
	if _, err := f.svc.Submit(context.Background(), actorFor(designer), in); err != nil {
		t.Fatalf("first pitch failed: %v", err)
	}
	_, err := f.svc.Submit(context.Background(), actorFor(designer), in)
	if !errors.Is(err, domain.ErrAlreadyResponded) {
		t.Errorf("expected ErrAlreadyResponded, got %v", err)
	}
}

func TestEngagement_Submit_NoRepliesOnDesignFeed(t *testing.T) {
	f := newEngagementFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	post := f.seedDesignPost(shop.ID)

	top, err := f.svc.Submit(context.Background(), actorFor(designer), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch", Price: price(100),
	})
	if err != nil {
		t.Fatalf("pitch failed: %v", err)
	}

	_, err = f.svc.Submit(context.Background(), actorFor(designer), ports.SubmitCommentInput{
		PostID: post.ID, Content: "more detail", ParentID: top.ID,
	})
	if !errors.Is(err, domain.ErrFlatFeed) {
		t.Errorf("expected ErrFlatFeed, got %v", err)
	}
}

func TestEngagement_Submit_ReplyThreadsUnderOwnPitch(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	post := f.seedBookingPost(fan.ID)

	top, err := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "we have an opening Friday",
	})
	if err != nil {
		t.Fatalf("pitch failed: %v", err)
	}

	reply, err := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "also Saturday works", ParentID: top.ID,
	})
	if err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if reply.ParentID != top.ID {
		t.Errorf("reply parent: want %q, got %q", top.ID, reply.ParentID)
	}
}

func TestEngagement_Submit_ReplyUnderForeignPitchRejected(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	shopA := seedUser(f.users, "shop_a", domain.RoleShop)
	shopB := seedUser(f.users, "shop_b", domain.RoleShop)
	post := f.seedBookingPost(fan.ID)

	top, err := f.svc.Submit(context.Background(), actorFor(shopA), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch A",
	})
	if err != nil {
		t.Fatalf("pitch failed: %v", err)
	}

	_, err = f.svc.Submit(context.Background(), actorFor(shopB), ports.SubmitCommentInput{
		PostID: post.ID, Content: "me too", ParentID: top.ID,
	})
	if !errors.Is(err, domain.ErrInvalidParent) {
		t.Errorf("expected ErrInvalidParent, got %v", err)
	}
}

func TestEngagement_Submit_PriceDroppedOnBookingFeed(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	post := f.seedBookingPost(fan.ID)

	c, err := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch", Price: price(500),
	})
	if err != nil {
		t.Fatalf("pitch failed: %v", err)
	}
	if c.Price != nil {
		t.Error("booking-feed comments must not carry a price")
	}
}

func TestEngagement_Edit_OwnerOnly(t *testing.T) {
	f := newEngagementFixture()
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	designer := seedUser(f.users, "designer_1", domain.RoleDesigner)
	other := seedUser(f.users, "designer_2", domain.RoleDesigner)
	post := f.seedDesignPost(shop.ID)

	c, _ := f.svc.Submit(context.Background(), actorFor(designer), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch", Price: price(100),
	})

	_, err := f.svc.Edit(context.Background(), actorFor(other), ports.EditCommentInput{
		CommentID: c.ID, Content: "hijacked",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}

	edited, err := f.svc.Edit(context.Background(), actorFor(designer), ports.EditCommentInput{
		CommentID: c.ID, Content: "updated pitch", Price: price(300),
	})
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if edited.Content != "updated pitch" {
		t.Errorf("content: got %q", edited.Content)
	}
	if edited.Price == nil || *edited.Price != 300 {
		t.Error("design-feed edit must update the price")
	}
}

func TestEngagement_Withdraw_TopLevelBookingPitch(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	post := f.seedBookingPost(fan.ID)

	c, _ := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch",
	})

	withdrawn, err := f.svc.Withdraw(context.Background(), actorFor(shop), c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !withdrawn.Withdrawn {
		t.Error("comment must be flagged withdrawn")
	}

	// Withdrawing again is rejected.
	_, err = f.svc.Withdraw(context.Background(), actorFor(shop), c.ID)
	if !errors.Is(err, domain.ErrWithdrawn) {
		t.Errorf("expected ErrWithdrawn, got %v", err)
	}
}

func TestEngagement_Withdraw_BlockedAfterBind(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	post := f.seedBookingPost(fan.ID)

	c, _ := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch",
	})

	// Once any pitch is accepted the shop slot is bound and withdrawal closes.
	if err := f.posts.BindShop(context.Background(), post.ID, shop.ID); err != nil {
		t.Fatalf("bind failed: %v", err)
	}

	_, err := f.svc.Withdraw(context.Background(), actorFor(shop), c.ID)
	if !errors.Is(err, domain.ErrPitchTaken) {
		t.Errorf("expected ErrPitchTaken, got %v", err)
	}
}

func TestEngagement_Withdraw_ReplyRejected(t *testing.T) {
	f := newEngagementFixture()
	fan := seedUser(f.users, "fan_1", domain.RoleFan)
	shop := seedUser(f.users, "shop_1", domain.RoleShop)
	post := f.seedBookingPost(fan.ID)

	top, _ := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "pitch",
	})
	reply, _ := f.svc.Submit(context.Background(), actorFor(shop), ports.SubmitCommentInput{
		PostID: post.ID, Content: "detail", ParentID: top.ID,
	})

	_, err := f.svc.Withdraw(context.Background(), actorFor(shop), reply.ID)
	if !errors.Is(err, domain.ErrNotWithdrawable) {
		t.Errorf("expected ErrNotWithdrawable, got %v", err)
	}
}
