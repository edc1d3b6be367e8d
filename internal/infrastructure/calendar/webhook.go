package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

// WebhookProvider forwards events to an external calendar bridge over HTTP.
// One instance per configured provider name (e.g. "googleCalendar").
type WebhookProvider struct {
	name   string
	url    string
	client *http.Client
}

func NewWebhookProvider(name, url string) *WebhookProvider {
	return &WebhookProvider{
		name:   name,
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *WebhookProvider) Name() string { return p.name }

type webhookEventRequest struct {
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
}

type webhookEventResponse struct {
	Ref string `json:"ref"`
}

func (p *WebhookProvider) CreateEvent(ctx context.Context, user *domain.User, event ports.CalendarEvent) (string, error) {
	attendees := make([]string, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		if a.Email != "" {
			attendees = append(attendees, a.Email)
		}
	}

	body, err := json.Marshal(webhookEventRequest{
		UserID:      user.ID,
		Title:       event.Title,
		Description: event.Description,
		Start:       event.Start,
		End:         event.End,
		Attendees:   attendees,
	})
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar bridge: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("calendar bridge: unexpected status %d", resp.StatusCode)
	}

	var out webhookEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Ref, nil
}
