package domain

import (
	"errors"
	"time"
)

// FeedType selects which marketplace workflow a post belongs to.
type FeedType string

const (
	FeedDesign  FeedType = "design"  // shop/elite posts, designers pitch
	FeedBooking FeedType = "booking" // fan posts, shops pitch
)

// Valid reports whether f is a known feed type.
func (f FeedType) Valid() bool {
	return f == FeedDesign || f == FeedBooking
}

// PostStatus represents the lifecycle state of a post.
type PostStatus string

const (
	StatusOpen      PostStatus = "open"
	StatusAccepted  PostStatus = "accepted"
	StatusScheduled PostStatus = "scheduled"
	StatusCompleted PostStatus = "completed"
	StatusCancelled PostStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Cancellation is reachable from every non-terminal state.
var validTransitions = map[PostStatus][]PostStatus{
	StatusOpen:      {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusScheduled, StatusCancelled},
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrPostNotFound = errors.New("post not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrPitchTaken = errors.New("pitch already accepted")
var ErrAlreadyScheduled = errors.New("booking already scheduled")
var ErrNotSchedulable = errors.New("a pitch must be accepted before scheduling")
var ErrCalendarFailed = errors.New("calendar event creation failed")

// ContactInfo is the contact detail set required before a booking is scheduled.
type ContactInfo struct {
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email" bson:"email"`
}

// EventRefs holds per-party external calendar references and .ics blobs.
type EventRefs struct {
	Refs map[string]string `json:"refs,omitempty" bson:"refs,omitempty"`
	ICS  string            `json:"-" bson:"ics,omitempty"`
}

// BookingDetails exists only on booking-feed posts, populated when the post is
// scheduled. Keeping it behind a pointer keeps design posts free of the
// scheduling field set entirely.
type BookingDetails struct {
	ScheduledDate time.Time   `json:"scheduled_date" bson:"scheduled_date"`
	ContactInfo   ContactInfo `json:"contact_info" bson:"contact_info"`
	DepositAmount float64     `json:"deposit_amount" bson:"deposit_amount"`
	DepositStatus string      `json:"deposit_status" bson:"deposit_status"`
	ClientEvent   EventRefs   `json:"client_event,omitempty" bson:"client_event,omitempty"`
	ShopEvent     EventRefs   `json:"shop_event,omitempty" bson:"shop_event,omitempty"`
}

// Post is the central aggregate. The creator always occupies exactly one role
// slot: ShopID for design posts, ClientID for booking posts. The counterpart
// slot (ArtistID for design, ShopID for booking) is bound exactly once, at
// pitch acceptance, and is immutable afterwards.
type Post struct {
	ID          string          `json:"id" bson:"_id,omitempty"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description" bson:"description"`
	Location    string          `json:"location" bson:"location"`
	FeedType    FeedType        `json:"feed_type" bson:"feed_type"`
	Status      PostStatus      `json:"status" bson:"status"`
	CreatorID   string          `json:"creator_id" bson:"creator_id"`
	ClientID    string          `json:"client_id,omitempty" bson:"client_id,omitempty"`
	ShopID      string          `json:"shop_id,omitempty" bson:"shop_id,omitempty"`
	ArtistID    string          `json:"artist_id,omitempty" bson:"artist_id,omitempty"`
	Images      []string        `json:"images" bson:"images"`
	Booking     *BookingDetails `json:"booking,omitempty" bson:"booking,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// NewDesignPost creates an open design-feed post owned by a shop-class creator.
func NewDesignPost(id, creatorID, title, description, location string, now time.Time) *Post {
	return &Post{
		ID:          id,
		Title:       title,
		Description: description,
		Location:    location,
		FeedType:    FeedDesign,
		Status:      StatusOpen,
		CreatorID:   creatorID,
		ShopID:      creatorID,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewBookingPost creates an open booking-feed post owned by a fan.
func NewBookingPost(id, creatorID, title, description, location string, now time.Time) *Post {
	return &Post{
		ID:          id,
		Title:       title,
		Description: description,
		Location:    location,
		FeedType:    FeedBooking,
		Status:      StatusOpen,
		CreatorID:   creatorID,
		ClientID:    creatorID,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// PitchBound reports whether the counterpart slot has been filled.
func (p *Post) PitchBound() bool {
	if p.FeedType == FeedDesign {
		return p.ArtistID != ""
	}
	return p.ShopID != ""
}

// CounterpartOf returns the other party of the engagement for userID. On the
// booking feed that pairs client and bound shop; on the design feed, shop and
// bound artist. Empty when userID is neither, or when no pitch has been bound
// yet.
func (p *Post) CounterpartOf(userID string) string {
	if userID == "" {
		return ""
	}
	if p.FeedType == FeedDesign {
		switch userID {
		case p.ShopID:
			return p.ArtistID
		case p.ArtistID:
			return p.ShopID
		}
		return ""
	}
	switch userID {
	case p.ClientID:
		return p.ShopID
	case p.ShopID:
		return p.ClientID
	}
	return ""
}
