// Package calendar creates appointment events for both parties of a scheduled
// booking. The builtin iCalendar export always runs; external providers run
// only for users who enabled them in their calendar integrations.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// Provider pushes an event into one external calendar system and returns an
// opaque external reference.
type Provider interface {
	Name() string
	CreateEvent(ctx context.Context, user *domain.User, event ports.CalendarEvent) (string, error)
}

type Service struct {
	providers []Provider
	log       zerolog.Logger
}

var _ ports.CalendarService = (*Service)(nil)

func NewService(log zerolog.Logger, providers ...Provider) *Service {
	return &Service{providers: providers, log: log}
}

// CreateEvent builds the .ics blob and fans out to the user's enabled
// providers. A provider failure fails the whole call; scheduling must not
// half-commit with one party's calendar missing.
func (s *Service) CreateEvent(ctx context.Context, user *domain.User, event ports.CalendarEvent) (*ports.CalendarResult, error) {
	result := &ports.CalendarResult{
		ICS: buildICS(uuid.NewString(), event, time.Now().UTC()),
	}

	for _, p := range s.providers {
		if !user.CalendarIntegrations[p.Name()] {
			continue
		}
		ref, err := p.CreateEvent(ctx, user, event)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		if result.ExternalRefs == nil {
			result.ExternalRefs = make(map[string]string)
		}
		result.ExternalRefs[p.Name()] = ref
		s.log.Debug().
			Str("provider", p.Name()).
			Str("user_id", user.ID).
			Str("external_ref", ref).
			Msg("calendar event created")
	}

	return result, nil
}
