package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rightartist/marketplace/internal/core/ports"
)

var _ ports.PresenceChecker = (*Presence)(nil)

const presenceTTL = 90 * time.Second

// Presence tracks which users hold a live push connection, backed by Redis.
// Keys expire after presenceTTL; connected gateways refresh them on a ticker
// so a crashed instance cannot leave users marked online forever.
// Key format: presence:<user_id>
type Presence struct {
	client *redis.Client
}

// NewPresence creates a Presence registry wrapping the given Redis client.
func NewPresence(client *redis.Client) *Presence {
	return &Presence{client: client}
}

// MarkOnline records userID as connected (expires after presenceTTL).
func (p *Presence) MarkOnline(ctx context.Context, userID string) error {
	return p.client.Set(ctx, p.key(userID), "1", presenceTTL).Err()
}

// Refresh extends the TTL for a still-connected user.
func (p *Presence) Refresh(ctx context.Context, userID string) error {
	return p.client.Expire(ctx, p.key(userID), presenceTTL).Err()
}

// MarkOffline removes the presence record on disconnect.
func (p *Presence) MarkOffline(ctx context.Context, userID string) error {
	return p.client.Del(ctx, p.key(userID)).Err()
}

// IsOnline reports whether userID currently has a live connection somewhere.
func (p *Presence) IsOnline(ctx context.Context, userID string) (bool, error) {
	n, err := p.client.Exists(ctx, p.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("presence check: %w", err)
	}
	return n > 0, nil
}

func (p *Presence) key(userID string) string {
	return fmt.Sprintf("presence:%s", userID)
}
