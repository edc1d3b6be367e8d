package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests. Each stub mirrors
// the guard semantics of the real Mongo repository (conditional updates,
// unique indexes) so services can be exercised without a database.
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	byID      map[string]*domain.User
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.byID {
		if existing.Username == u.Username {
			return domain.ErrUserExists
		}
	}
	clone := *u
	r.byID[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if u.Role == role {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubUserRepo) SetPaid(_ context.Context, userID string, paid bool) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsPaid = paid
	return nil
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	clone := *u
	r.byID[u.ID] = &clone
	return u
}

type stubPostRepo struct {
	byID      map[string]*domain.Post
	createErr error
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{byID: make(map[string]*domain.Post)}
}

func (r *stubPostRepo) Create(_ context.Context, p *domain.Post) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) List(_ context.Context, f ports.FeedFilter) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, p := range r.byID {
		if f.FeedType != "" && p.FeedType != f.FeedType {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.ShopID != "" && p.ShopID != f.ShopID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPostRepo) BindShop(_ context.Context, postID, shopID string) error {
	p, ok := r.byID[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	// Mirrors the conditional update: the shop slot must still be empty.
	if p.ShopID != "" {
		return domain.ErrPitchTaken
	}
	p.ShopID = shopID
	p.Status = domain.StatusAccepted
	return nil
}

func (r *stubPostRepo) BindArtist(_ context.Context, postID, artistID string) error {
	p, ok := r.byID[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if p.ArtistID != "" {
		return domain.ErrPitchTaken
	}
	p.ArtistID = artistID
	p.Status = domain.StatusAccepted
	return nil
}

func (r *stubPostRepo) Schedule(_ context.Context, postID string, details *domain.BookingDetails) error {
	p, ok := r.byID[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if p.Status != domain.StatusAccepted {
		return domain.ErrAlreadyScheduled
	}
	p.Booking = details
	p.Status = domain.StatusScheduled
	return nil
}

func (r *stubPostRepo) SetStatus(_ context.Context, postID string, from, to domain.PostStatus) error {
	p, ok := r.byID[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	if p.Status != from {
		return domain.ErrInvalidTransition
	}
	p.Status = to
	return nil
}

func (r *stubPostRepo) Delete(_ context.Context, postID string) error {
	if _, ok := r.byID[postID]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.byID, postID)
	return nil
}

type stubCommentRepo struct {
	byID      map[string]*domain.Comment
	createErr error
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{byID: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	if r.createErr != nil {
		return r.createErr
	}
	// Mirrors the partial unique index on (post_id, user_id, parent_id=null).
	if c.ParentID == "" {
		for _, existing := range r.byID {
			if existing.PostID == c.PostID && existing.UserID == c.UserID && existing.ParentID == "" {
				return domain.ErrAlreadyResponded
			}
		}
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range r.byID {
		if c.PostID == postID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubCommentRepo) HasTopLevel(_ context.Context, postID, userID string) (bool, error) {
	for _, c := range r.byID {
		if c.PostID == postID && c.UserID == userID && c.ParentID == "" && !c.Withdrawn {
			return true, nil
		}
	}
	return false, nil
}

// bookingPosts links comments to the posts stub for the shop-to-fan gate.
func (r *stubCommentRepo) HasAnyOnBookingPostsOf(_ context.Context, shopID, fanID string) (bool, error) {
	for _, c := range r.byID {
		if c.UserID == shopID && c.PostID == "booking-of-"+fanID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCommentRepo) Update(_ context.Context, c *domain.Comment) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCommentNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) Withdraw(_ context.Context, commentID string) error {
	c, ok := r.byID[commentID]
	if !ok {
		return domain.ErrCommentNotFound
	}
	if c.Withdrawn {
		return domain.ErrWithdrawn
	}
	c.Withdrawn = true
	return nil
}

type stubDesignRepo struct {
	byID map[string]*domain.Design
}

func newStubDesignRepo() *stubDesignRepo {
	return &stubDesignRepo{byID: make(map[string]*domain.Design)}
}

func (r *stubDesignRepo) Create(_ context.Context, d *domain.Design) error {
	// Mirrors the unique index on comment_id.
	for _, existing := range r.byID {
		if existing.CommentID == d.CommentID {
			return domain.ErrDesignTaken
		}
	}
	clone := *d
	r.byID[d.ID] = &clone
	return nil
}

func (r *stubDesignRepo) FindByID(_ context.Context, id string) (*domain.Design, error) {
	d, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrDesignNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDesignRepo) List(_ context.Context, f ports.DesignFilter) ([]*domain.Design, error) {
	var out []*domain.Design
	for _, d := range r.byID {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.DesignerID != "" && d.DesignerID != f.DesignerID {
			continue
		}
		if f.ShopID != "" && d.ShopID != f.ShopID {
			continue
		}
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubDesignRepo) SetStage(_ context.Context, designID string, stage domain.DesignStage, addImages []string) error {
	d, ok := r.byID[designID]
	if !ok {
		return domain.ErrDesignNotFound
	}
	if d.Status != domain.DesignPending {
		return domain.ErrAlreadyPurchased
	}
	d.Stage = stage
	d.Images = append(d.Images, addImages...)
	return nil
}

func (r *stubDesignRepo) MarkPurchased(_ context.Context, designID string) error {
	d, ok := r.byID[designID]
	if !ok {
		return domain.ErrDesignNotFound
	}
	if d.Status != domain.DesignPending {
		return domain.ErrAlreadyPurchased
	}
	d.Status = domain.DesignPurchased
	return nil
}

type stubMessageRepo struct {
	byID      map[string]*domain.Message
	createErr error
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{byID: make(map[string]*domain.Message)}
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *m
	r.byID[m.ID] = &clone
	return nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMessageRepo) ListByReceiver(_ context.Context, receiverID string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.byID {
		if m.ReceiverID == receiverID {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) ListBySender(_ context.Context, senderID string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.byID {
		if m.SenderID == senderID {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) MarkRead(_ context.Context, messageID, receiverID string) (*domain.Message, error) {
	m, ok := r.byID[messageID]
	if !ok || m.ReceiverID != receiverID {
		return nil, domain.ErrMessageNotFound
	}
	m.IsRead = true
	clone := *m
	return &clone, nil
}

type stubNotificationRepo struct {
	byUser    map[string][]*domain.Notification
	createErr error
}

func newStubNotificationRepo() *stubNotificationRepo {
	return &stubNotificationRepo{byUser: make(map[string][]*domain.Notification)}
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *n
	r.byUser[n.UserID] = append(r.byUser[n.UserID], &clone)
	return nil
}

func (r *stubNotificationRepo) CreateMany(ctx context.Context, ns []*domain.Notification) error {
	for _, n := range ns {
		if err := r.Create(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string) ([]*domain.Notification, error) {
	out := make([]*domain.Notification, 0, len(r.byUser[userID]))
	for _, n := range r.byUser[userID] {
		clone := *n
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var updated int64
	for _, n := range r.byUser[userID] {
		if !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

type stubPaymentRepo struct {
	byUser map[string][]*domain.Payment
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{byUser: make(map[string][]*domain.Payment)}
}

func (r *stubPaymentRepo) Create(_ context.Context, p *domain.Payment) error {
	clone := *p
	r.byUser[p.UserID] = append(r.byUser[p.UserID], &clone)
	return nil
}

func (r *stubPaymentRepo) ListByUser(_ context.Context, userID string) ([]*domain.Payment, error) {
	return r.byUser[userID], nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

// stubNotifier records every push so tests can assert on delivery order.
type stubNotifier struct {
	pushes []pushRecord
}

type pushRecord struct {
	userID string
	event  ports.PushEvent
}

func (n *stubNotifier) Push(userID string, event ports.PushEvent) {
	n.pushes = append(n.pushes, pushRecord{userID: userID, event: event})
}

func (n *stubNotifier) pushedTo(userID, eventType string) bool {
	for _, p := range n.pushes {
		if p.userID == userID && p.event.Type == eventType {
			return true
		}
	}
	return false
}

// stubPresence marks the listed users as holding a live connection.
type stubPresence struct {
	online map[string]bool
	err    error
}

func newStubPresence() *stubPresence {
	return &stubPresence{online: make(map[string]bool)}
}

func (p *stubPresence) IsOnline(_ context.Context, userID string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.online[userID], nil
}

type stubCalendar struct {
	err   error
	calls int
}

func (c *stubCalendar) CreateEvent(_ context.Context, user *domain.User, event ports.CalendarEvent) (*ports.CalendarResult, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return &ports.CalendarResult{
		ExternalRefs: map[string]string{},
		ICS:          "BEGIN:VCALENDAR\r\nics-for-" + user.ID + "\r\nEND:VCALENDAR\r\n",
	}, nil
}

type stubCharger struct {
	err     error
	charged []chargeRecord
}

type chargeRecord struct {
	token     string
	cents     int64
	reference string
}

func (c *stubCharger) Charge(_ context.Context, cardToken string, amountCents int64, reference string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.charged = append(c.charged, chargeRecord{token: cardToken, cents: amountCents, reference: reference})
	return "txn-0001", nil
}

type stubQueue struct {
	enqueued []queuedJob
}

type queuedJob struct {
	userID  string
	message string
}

func (q *stubQueue) Enqueue(userID, message string) {
	q.enqueued = append(q.enqueued, queuedJob{userID: userID, message: message})
}

type stubRatingRepo struct {
	byID map[string]*domain.Rating
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{byID: make(map[string]*domain.Rating)}
}

func (r *stubRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	// Mirrors the unique index on (rater_id, ratee_id, post_id).
	for _, existing := range r.byID {
		if existing.RaterID == rating.RaterID &&
			existing.RateeID == rating.RateeID &&
			existing.PostID == rating.PostID {
			return domain.ErrAlreadyRated
		}
	}
	clone := *rating
	r.byID[rating.ID] = &clone
	return nil
}

func (r *stubRatingRepo) ListByPost(_ context.Context, postID string) ([]*domain.Rating, error) {
	var out []*domain.Rating
	for _, rating := range r.byID {
		if rating.PostID == postID {
			clone := *rating
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubRatingRepo) ListByRatee(_ context.Context, rateeID string) ([]*domain.Rating, error) {
	var out []*domain.Rating
	for _, rating := range r.byID {
		if rating.RateeID == rateeID {
			clone := *rating
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubBadgeRepo struct {
	byID map[string]*domain.Badge
}

func newStubBadgeRepo() *stubBadgeRepo {
	return &stubBadgeRepo{byID: make(map[string]*domain.Badge)}
}

func (r *stubBadgeRepo) Create(_ context.Context, b *domain.Badge) error {
	// Duplicate awards are a no-op, like the unique (user_id, name) index.
	for _, existing := range r.byID {
		if existing.UserID == b.UserID && existing.Name == b.Name {
			return nil
		}
	}
	clone := *b
	r.byID[b.ID] = &clone
	return nil
}

func (r *stubBadgeRepo) ListByUser(_ context.Context, userID string) ([]*domain.Badge, error) {
	var out []*domain.Badge
	for _, b := range r.byID {
		if b.UserID == userID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Seed helpers
// ---------------------------------------------------------------------------

func seedUser(repo *stubUserRepo, id string, role domain.Role) *domain.User {
	now := time.Now().UTC()
	return repo.seed(&domain.User{
		ID:        id,
		FirstName: "Test",
		LastName:  id,
		Username:  "user-" + id,
		Email:     id + "@example.com",
		Role:      role,
		IsAdmin:   role == domain.RoleAdmin,
		IsPaid:    role.IsShopClass(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func actorFor(u *domain.User) ports.Actor {
	return ports.Actor{ID: u.ID, Role: u.Role, IsAdmin: u.IsAdmin, IsPaid: u.IsPaid}
}

func newTestNotificationService(users *stubUserRepo) (*NotificationService, *stubNotificationRepo, *stubNotifier) {
	repo := newStubNotificationRepo()
	notifier := &stubNotifier{}
	return NewNotificationService(repo, users, notifier, discardLogger), repo, notifier
}
