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

const appointmentDuration = time.Hour

// PostService owns the post lifecycle state machine. Every transition is a
// conditional update in the repository; a guard miss surfaces as a Conflict
// sentinel so concurrent callers never double-apply a transition.
type PostService struct {
	posts         ports.PostRepository
	comments      ports.CommentRepository
	users         ports.UserRepository
	messages      ports.MessageRepository
	notifications ports.NotificationService
	broadcast     ports.NotificationQueue
	calendar      ports.CalendarService
	notifier      ports.Notifier
	logger        zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	users ports.UserRepository,
	messages ports.MessageRepository,
	notifications ports.NotificationService,
	broadcast ports.NotificationQueue,
	calendar ports.CalendarService,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *PostService {
	return &PostService{
		posts:         posts,
		comments:      comments,
		users:         users,
		messages:      messages,
		notifications: notifications,
		broadcast:     broadcast,
		calendar:      calendar,
		notifier:      notifier,
		logger:        logger,
	}
}

// Create opens a new post. Design posts belong to paid shop-class accounts,
// booking posts to fans. Every designer is notified about the new post
// through the fan-out queue.
func (s *PostService) Create(ctx context.Context, actor ports.Actor, in ports.CreatePostInput) (*domain.Post, error) {
	feed := domain.FeedType(in.FeedType)
	if !feed.Valid() {
		return nil, fmt.Errorf("%w: unknown feed type %q", domain.ErrInvalidTransition, in.FeedType)
	}

	creator, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if creator.Role.IsShopClass() && !creator.IsPaid {
		return nil, domain.ErrSubscriptionRequired
	}

	now := time.Now().UTC()
	var post *domain.Post
	switch feed {
	case domain.FeedDesign:
		if !creator.Role.IsShopClass() {
			return nil, domain.ErrForbidden
		}
		post = domain.NewDesignPost(uuid.NewString(), creator.ID, in.Title, in.Description, in.Location, now)
	case domain.FeedBooking:
		if creator.Role != domain.RoleFan {
			return nil, domain.ErrForbidden
		}
		post = domain.NewBookingPost(uuid.NewString(), creator.ID, in.Title, in.Description, in.Location, now)
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	metrics.PostsCreatedTotal.WithLabelValues(string(feed)).Inc()
	s.logger.Info().Str("post_id", post.ID).Str("feed", string(feed)).Str("creator_id", creator.ID).Msg("post created")

	s.broadcastToDesigners(ctx, creator, post)
	return post, nil
}

// broadcastToDesigners fans the new-post notification out to every designer.
// The broadcast is best-effort and never fails the creation.
func (s *PostService) broadcastToDesigners(ctx context.Context, creator *domain.User, post *domain.Post) {
	designers, err := s.users.FindByRole(ctx, domain.RoleDesigner)
	if err != nil {
		s.logger.Warn().Err(err).Msg("designer lookup failed, skipping new-post broadcast")
		return
	}

	kind := "booking request"
	if post.FeedType == domain.FeedDesign {
		kind = "design request"
	}
	msg := fmt.Sprintf("New %s posted by %s: %q", kind, creator.Username, post.Title)

	for _, d := range designers {
		if d.ID == creator.ID {
			continue
		}
		s.broadcast.Enqueue(d.ID, msg)
	}
}

func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.FindByID(ctx, postID)
}

// feedViewers is the allowed-reader set per feed type.
func feedViewers(role domain.Role, feed domain.FeedType) bool {
	switch feed {
	case domain.FeedDesign:
		return role == domain.RoleDesigner || role.IsShopClass()
	case domain.FeedBooking:
		return role == domain.RoleFan || role.IsShopClass()
	}
	return false
}

// Feed lists open posts of the given feed, newest first.
func (s *PostService) Feed(ctx context.Context, actor ports.Actor, feedType string) ([]*domain.Post, error) {
	feed := domain.FeedType(feedType)
	if !feed.Valid() {
		return nil, fmt.Errorf("%w: unknown feed type %q", domain.ErrInvalidTransition, feedType)
	}
	if !actor.IsAdmin && !feedViewers(actor.Role, feed) {
		return nil, domain.ErrForbidden
	}
	return s.posts.List(ctx, ports.FeedFilter{FeedType: feed, Status: domain.StatusOpen})
}

// ShopBookings lists scheduled booking posts bound to the calling shop.
func (s *PostService) ShopBookings(ctx context.Context, actor ports.Actor) ([]*domain.Post, error) {
	if actor.Role != domain.RoleShop {
		return nil, domain.ErrForbidden
	}
	return s.posts.List(ctx, ports.FeedFilter{
		FeedType: domain.FeedBooking,
		Status:   domain.StatusScheduled,
		ShopID:   actor.ID,
	})
}

// AcceptPitch binds the pitch author's shop into a booking post. Only the
// post creator accepts, only one pitch ever wins, and a withdrawn pitch can
// never be accepted.
func (s *PostService) AcceptPitch(ctx context.Context, actor ports.Actor, postID, commentID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.CreatorID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if post.FeedType != domain.FeedBooking {
		return nil, fmt.Errorf("%w: pitches are accepted on booking posts only", domain.ErrInvalidTransition)
	}
	if post.PitchBound() {
		return nil, domain.ErrPitchTaken
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != post.ID || comment.IsReply() {
		return nil, domain.ErrCommentNotFound
	}
	if comment.Withdrawn {
		return nil, domain.ErrWithdrawn
	}

	shop, err := s.users.FindByID(ctx, comment.UserID)
	if err != nil {
		return nil, err
	}
	if shop.Role != domain.RoleShop {
		return nil, domain.ErrForbidden
	}

	// Conditional bind: the filter requires the shop slot to still be empty,
	// so a concurrent accept loses with ErrPitchTaken.
	if err := s.posts.BindShop(ctx, post.ID, shop.ID); err != nil {
		return nil, err
	}
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(domain.StatusAccepted)).Inc()

	post.ShopID = shop.ID
	post.Status = domain.StatusAccepted

	client, err := s.users.FindByID(ctx, actor.ID)
	if err == nil {
		msg := fmt.Sprintf("Your pitch on %q has been accepted by %s.", post.Title, client.FullName())
		if err := s.notifications.Notify(ctx, shop.ID, msg); err != nil {
			s.logger.Warn().Err(err).Str("shop_id", shop.ID).Msg("failed to notify accepted shop")
		}
	}

	s.logger.Info().Str("post_id", post.ID).Str("shop_id", shop.ID).Msg("pitch accepted")
	return post, nil
}

// Schedule attaches an appointment to an accepted booking post: deposit from
// the shop's settings, calendar events for both parties, notifications to
// both, and an introductory message from the fan to the shop.
func (s *PostService) Schedule(ctx context.Context, actor ports.Actor, postID string, in ports.ScheduleInput) (*ports.ScheduleResult, error) {
	if in.ScheduledDate.IsZero() || in.ContactInfo.Phone == "" || in.ContactInfo.Email == "" {
		return nil, fmt.Errorf("%w: scheduledDate and contactInfo (phone, email) are required", domain.ErrInvalidTransition)
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.FeedType != domain.FeedBooking {
		return nil, fmt.Errorf("%w: only booking posts are scheduled", domain.ErrInvalidTransition)
	}
	if post.CreatorID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if !post.PitchBound() {
		return nil, domain.ErrNotSchedulable
	}
	if post.Status == domain.StatusScheduled {
		return nil, domain.ErrAlreadyScheduled
	}

	shop, err := s.users.FindByID(ctx, post.ShopID)
	if err != nil {
		return nil, err
	}
	fan, err := s.users.FindByID(ctx, post.ClientID)
	if err != nil {
		return nil, err
	}

	event := ports.CalendarEvent{
		Title:       "Tattoo Appointment: " + post.Title,
		Description: fmt.Sprintf("Booking with %s (%s) and %s (%s)", shop.FullName(), shop.Email, fan.FullName(), fan.Email),
		Start:       in.ScheduledDate,
		End:         in.ScheduledDate.Add(appointmentDuration),
		Organizer:   ports.CalendarAttendee{Name: fan.FullName(), Email: fan.Email},
		Attendees: []ports.CalendarAttendee{
			{Name: fan.FullName(), Email: fan.Email},
			{Name: shop.FullName(), Email: shop.Email},
		},
	}

	fanCal, err := s.calendar.CreateEvent(ctx, fan, event)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCalendarFailed, err)
	}
	shopCal, err := s.calendar.CreateEvent(ctx, shop, event)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCalendarFailed, err)
	}

	details := &domain.BookingDetails{
		ScheduledDate: in.ScheduledDate,
		ContactInfo:   in.ContactInfo,
		DepositAmount: shop.DepositAmount,
		DepositStatus: "pending",
		ClientEvent:   domain.EventRefs{Refs: fanCal.ExternalRefs, ICS: fanCal.ICS},
		ShopEvent:     domain.EventRefs{Refs: shopCal.ExternalRefs, ICS: shopCal.ICS},
	}

	// Status guard accepted -> scheduled; a concurrent schedule loses here.
	if err := s.posts.Schedule(ctx, post.ID, details); err != nil {
		return nil, err
	}
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(domain.StatusScheduled)).Inc()

	post.Status = domain.StatusScheduled
	post.Booking = details

	when := in.ScheduledDate.Format("Jan 2, 2006 at 3:04 PM")
	s.notifyBoth(ctx,
		fan.ID, fmt.Sprintf("Your booking %q has been scheduled with %s on %s.", post.Title, shop.FullName(), when),
		shop.ID, fmt.Sprintf("%s scheduled an ink for %q on %s.", fan.FullName(), post.Title, when),
	)

	s.createIntroMessage(ctx, fan.ID, shop.ID, when)

	s.logger.Info().Str("post_id", post.ID).Time("scheduled_date", in.ScheduledDate).Msg("booking scheduled")
	return &ports.ScheduleResult{Post: post, ClientICS: fanCal.ICS, ShopICS: shopCal.ICS}, nil
}

func (s *PostService) notifyBoth(ctx context.Context, aID, aMsg, bID, bMsg string) {
	if err := s.notifications.Notify(ctx, aID, aMsg); err != nil {
		s.logger.Warn().Err(err).Str("user_id", aID).Msg("notify failed")
	}
	if err := s.notifications.Notify(ctx, bID, bMsg); err != nil {
		s.logger.Warn().Err(err).Str("user_id", bID).Msg("notify failed")
	}
}

// createIntroMessage opens the conversation between the two scheduled
// parties. Failure is logged, not surfaced: the schedule already committed.
func (s *PostService) createIntroMessage(ctx context.Context, fanID, shopID, when string) {
	msg := &domain.Message{
		ID:         uuid.NewString(),
		SenderID:   fanID,
		ReceiverID: shopID,
		Content:    fmt.Sprintf("I've scheduled our ink for %s. Let's confirm the details!", when),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Msg("failed to create introductory message")
		return
	}
	s.notifier.Push(shopID, ports.PushEvent{Type: "message", Data: msg})
}

// Complete marks a scheduled booking as done. Bound shop only.
func (s *PostService) Complete(ctx context.Context, actor ports.Actor, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ShopID == "" || post.ShopID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if !post.Status.CanTransitionTo(domain.StatusCompleted) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, post.Status, domain.StatusCompleted)
	}

	if err := s.posts.SetStatus(ctx, post.ID, post.Status, domain.StatusCompleted); err != nil {
		return nil, err
	}
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(domain.StatusCompleted)).Inc()
	post.Status = domain.StatusCompleted

	if counterpart := post.CounterpartOf(actor.ID); counterpart != "" {
		msg := fmt.Sprintf("Your booking %q has been completed.", post.Title)
		if err := s.notifications.Notify(ctx, counterpart, msg); err != nil {
			s.logger.Warn().Err(err).Str("user_id", counterpart).Msg("notify failed")
		}
	}
	return post, nil
}

// Cancel aborts a post from any non-terminal state. The creator or any bound
// party (shop, client, or artist on a design post) may cancel; a completed
// post cannot be cancelled.
func (s *PostService) Cancel(ctx context.Context, actor ports.Actor, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if actor.ID != post.CreatorID && actor.ID != post.ShopID && actor.ID != post.ClientID &&
		(post.ArtistID == "" || actor.ID != post.ArtistID) {
		return nil, domain.ErrForbidden
	}
	if !post.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, post.Status, domain.StatusCancelled)
	}

	if err := s.posts.SetStatus(ctx, post.ID, post.Status, domain.StatusCancelled); err != nil {
		return nil, err
	}
	metrics.LifecycleTransitionsTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	post.Status = domain.StatusCancelled

	if counterpart := post.CounterpartOf(actor.ID); counterpart != "" {
		msg := fmt.Sprintf("The post %q has been cancelled.", post.Title)
		if err := s.notifications.Notify(ctx, counterpart, msg); err != nil {
			s.logger.Warn().Err(err).Str("user_id", counterpart).Msg("notify failed")
		}
	}
	return post, nil
}

// EventICS returns the stored calendar blob for the calling party.
func (s *PostService) EventICS(ctx context.Context, actor ports.Actor, postID string) (string, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return "", err
	}
	if actor.ID != post.CreatorID && actor.ID != post.ShopID {
		return "", domain.ErrForbidden
	}
	if post.Booking == nil || post.Booking.ScheduledDate.IsZero() {
		return "", domain.ErrNotSchedulable
	}

	ics := post.Booking.ShopEvent.ICS
	if actor.ID == post.ClientID {
		ics = post.Booking.ClientEvent.ICS
	}
	if ics == "" {
		return "", domain.ErrPostNotFound
	}
	return ics, nil
}

// Delete hard-deletes a post and its comment tree. Admin only.
func (s *PostService) Delete(ctx context.Context, actor ports.Actor, postID string) error {
	if !actor.IsAdmin {
		return domain.ErrForbidden
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}
	s.logger.Info().Str("post_id", postID).Str("admin_id", actor.ID).Msg("post deleted by admin")
	return nil
}
