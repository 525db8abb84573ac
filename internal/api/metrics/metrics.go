// Package metrics defines and registers all custom Prometheus metrics
// for the forum API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default Prometheus registry via
// promauto at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "forum"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDeniedTotal counts requests rejected by the authorization gate.
// Labels:
//   - operation: the attempted operation (e.g. "edit_post")
//   - reason: "unauthenticated" or "forbidden"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests denied by the authorization gate.",
	},
	[]string{"operation", "reason"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ThemesCreatedTotal counts newly created themes.
var ThemesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "themes_created_total",
		Help:      "Total number of themes created.",
	},
)

// PostsCreatedTotal counts newly created posts, initial posts included.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// SubscriptionsTotal counts subscribe requests that reached the store,
// idempotent no-ops included.
var SubscriptionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscriptions_total",
		Help:      "Total number of theme subscribe requests accepted.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotifyErrorsTotal counts post events whose subscriber fanout failed.
// Label:
//   - reason: short description of the failure (e.g. "process_failed")
var NotifyErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notify_errors_total",
		Help:      "Total number of post events whose notification fanout failed.",
	},
	[]string{"reason"},
)

// NotifyQueueDepth tracks the current number of post events waiting in
// each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotifyQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of post events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
