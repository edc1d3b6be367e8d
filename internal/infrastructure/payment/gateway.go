// Package payment integrates the external card processor. Card data never
// touches this service; the client exchanges an opaque card token for a
// charge.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/core/domain"
	"github.com/rightartist/marketplace/internal/core/ports"
)

var _ ports.CardCharger = (*Gateway)(nil)

// Gateway charges cards through the processor's HTTP API.
type Gateway struct {
	url    string
	apiKey string
	client *http.Client
	log    zerolog.Logger
}

func NewGateway(url, apiKey string, log zerolog.Logger) *Gateway {
	return &Gateway{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

type chargeRequest struct {
	CardToken   string `json:"card_token"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
}

type chargeResponse struct {
	TransactionRef string `json:"transaction_ref"`
	Declined       bool   `json:"declined"`
	Reason         string `json:"reason,omitempty"`
}

// Charge runs a charge against the processor. Reference deduplicates retries
// on the processor side, so a network timeout is safe to retry with the same
// reference. A decline is returned as domain.ErrPaymentDeclined.
func (g *Gateway) Charge(ctx context.Context, cardToken string, amountCents int64, reference string) (string, error) {
	body, err := json.Marshal(chargeRequest{
		CardToken:   cardToken,
		AmountCents: amountCents,
		Currency:    "usd",
		Reference:   reference,
	})
	if err != nil {
		return "", fmt.Errorf("marshal charge: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment processor: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return "", domain.ErrPaymentDeclined
	default:
		return "", fmt.Errorf("payment processor: unexpected status %d", resp.StatusCode)
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Declined {
		g.log.Info().Str("reference", reference).Str("reason", out.Reason).Msg("charge declined")
		return "", domain.ErrPaymentDeclined
	}

	return out.TransactionRef, nil
}
