// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names, labels,
// and help strings.
//
// All metrics are registered with the default Prometheus registry at package
// init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Post metrics ──────────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
// Label:
//   - feed: "design" or "booking"
var PostsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created, by feed.",
	},
	[]string{"feed"},
)

// LifecycleTransitionsTotal counts post lifecycle transitions that were
// applied successfully.
// Label:
//   - status: the new post status (e.g. "accepted", "scheduled", "completed", "cancelled")
var LifecycleTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lifecycle_transitions_total",
		Help:      "Total number of post lifecycle transitions applied, by resulting status.",
	},
	[]string{"status"},
)

// ── Engagement metrics ────────────────────────────────────────────────────────

// CommentsSubmittedTotal counts accepted comment submissions.
// Label:
//   - feed: the feed of the parent post ("design" or "booking")
var CommentsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_submitted_total",
		Help:      "Total number of comments and pitches accepted, by feed.",
	},
	[]string{"feed"},
)

// DesignsPurchasedTotal counts completed design purchases.
var DesignsPurchasedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "designs_purchased_total",
		Help:      "Total number of designs purchased.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsCreatedTotal counts notifications written to storage.
var NotificationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications persisted.",
	},
)

// NotificationsQueueDepth tracks the current number of broadcast jobs waiting
// in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of jobs pending in each broadcast worker channel.",
	},
	[]string{"worker_id"},
)

// PushDeliveriesTotal counts live push attempts over the websocket gateway.
// Label:
//   - result: "sent" (delivered to a live connection), "offline" (no
//     connection, dropped) or "error" (write failed, connection evicted)
var PushDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_deliveries_total",
		Help:      "Total number of live push attempts, by result.",
	},
	[]string{"result"},
)
