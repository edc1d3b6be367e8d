package push

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rightartist/marketplace/internal/api/metrics"
	"github.com/rightartist/marketplace/internal/core/ports"
	redisdb "github.com/rightartist/marketplace/internal/infrastructure/db/redis"
)

const (
	writeTimeout    = 10 * time.Second
	refreshInterval = 60 * time.Second
)

var _ ports.Notifier = (*Gateway)(nil)

// Gateway is the websocket hub behind best-effort push. One connection per
// user id; a reconnect replaces the previous socket. Push to a user without a
// live connection is a no-op, never an error, so durable state must already
// be written by the time a caller pushes.
type Gateway struct {
	upgrader websocket.Upgrader
	presence *redisdb.Presence
	log      zerolog.Logger

	mu    sync.RWMutex
	conns map[string]*conn
}

type conn struct {
	ws *websocket.Conn
	mu sync.Mutex // serializes writes to the socket
}

func NewGateway(presence *redisdb.Presence, log zerolog.Logger) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		presence: presence,
		conns:    make(map[string]*conn),
		log:      log,
	}
}

// Handle upgrades the request to a websocket for the authenticated user. The
// user id comes from the auth middleware, never from the client.
func (g *Gateway) Handle(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	ws, err := g.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	g.register(c.Request().Context(), userID, ws)
	return nil
}

func (g *Gateway) register(ctx context.Context, userID string, ws *websocket.Conn) {
	cn := &conn{ws: ws}

	g.mu.Lock()
	if old, ok := g.conns[userID]; ok {
		_ = old.ws.Close()
	}
	g.conns[userID] = cn
	g.mu.Unlock()

	if err := g.presence.MarkOnline(ctx, userID); err != nil {
		g.log.Warn().Err(err).Str("user_id", userID).Msg("presence mark online failed")
	}
	g.log.Debug().Str("user_id", userID).Msg("push connection opened")

	go g.readLoop(userID, cn)
	go g.refreshLoop(userID, cn)
}

// readLoop drains client frames so pings are answered and the close handshake
// completes. Clients never send application data.
func (g *Gateway) readLoop(userID string, cn *conn) {
	defer g.unregister(userID, cn)
	for {
		if _, _, err := cn.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (g *Gateway) refreshLoop(userID string, cn *conn) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for range ticker.C {
		g.mu.RLock()
		current := g.conns[userID] == cn
		g.mu.RUnlock()
		if !current {
			return
		}
		if err := g.presence.Refresh(context.Background(), userID); err != nil {
			g.log.Warn().Err(err).Str("user_id", userID).Msg("presence refresh failed")
		}
	}
}

func (g *Gateway) unregister(userID string, cn *conn) {
	_ = cn.ws.Close()

	g.mu.Lock()
	current := g.conns[userID] == cn
	if current {
		delete(g.conns, userID)
	}
	g.mu.Unlock()

	if current {
		if err := g.presence.MarkOffline(context.Background(), userID); err != nil {
			g.log.Warn().Err(err).Str("user_id", userID).Msg("presence mark offline failed")
		}
		g.log.Debug().Str("user_id", userID).Msg("push connection closed")
	}
}

// Push delivers an event to userID's live connection, if any. At-most-once:
// a missing connection or a write failure drops the event silently.
func (g *Gateway) Push(userID string, event ports.PushEvent) {
	g.mu.RLock()
	cn, ok := g.conns[userID]
	g.mu.RUnlock()
	if !ok {
		metrics.PushDeliveriesTotal.WithLabelValues("offline").Inc()
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", userID).Msg("push event marshal failed")
		metrics.PushDeliveriesTotal.WithLabelValues("error").Inc()
		return
	}

	cn.mu.Lock()
	_ = cn.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	err = cn.ws.WriteMessage(websocket.TextMessage, payload)
	cn.mu.Unlock()

	if err != nil {
		g.log.Debug().Err(err).Str("user_id", userID).Msg("push write failed")
		metrics.PushDeliveriesTotal.WithLabelValues("error").Inc()
		go g.unregister(userID, cn)
		return
	}
	metrics.PushDeliveriesTotal.WithLabelValues("sent").Inc()
}

// Close tears down every live connection, typically on shutdown.
func (g *Gateway) Close() {
	g.mu.Lock()
	conns := g.conns
	g.conns = make(map[string]*conn)
	g.mu.Unlock()

	for userID, cn := range conns {
		_ = cn.ws.Close()
		if err := g.presence.MarkOffline(context.Background(), userID); err != nil {
			g.log.Warn().Err(err).Str("user_id", userID).Msg("presence mark offline failed")
		}
	}
}
