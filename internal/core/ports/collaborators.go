package ports

import (
	"context"
	"time"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// PushEvent is the structured payload delivered over the live channel.
type PushEvent struct {
	Type   string `json:"type"`
	UserID string `json:"user_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Notifier abstracts the real-time push collaborator. Delivery is best-effort,
// at-most-once: Push to a user without a live connection is a no-op and never
// an error. Durable state must be written before Push is attempted.
type Notifier interface {
	Push(userID string, event PushEvent)
}

// PresenceChecker reports whether a user currently holds a live connection
// on any gateway instance.
type PresenceChecker interface {
	IsOnline(ctx context.Context, userID string) (bool, error)
}

// CalendarAttendee identifies a party on a calendar event.
type CalendarAttendee struct {
	Name  string
	Email string
}

// CalendarEvent carries the appointment data handed to calendar providers.
type CalendarEvent struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Organizer   CalendarAttendee
	Attendees   []CalendarAttendee
}

// CalendarResult is returned per user: the .ics blob is always generated;
// external references appear only for providers the user has enabled.
type CalendarResult struct {
	ExternalRefs map[string]string
	ICS          string
}

// CalendarService abstracts the calendar collaborator.
type CalendarService interface {
	CreateEvent(ctx context.Context, user *domain.User, event CalendarEvent) (*CalendarResult, error)
}

// CardCharger abstracts the opaque payment gateway. A decline is returned as
// domain.ErrPaymentDeclined; the string result is the gateway transaction
// reference on success.
type CardCharger interface {
	Charge(ctx context.Context, cardToken string, amountCents int64, reference string) (string, error)
}
