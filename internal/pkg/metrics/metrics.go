// Package metrics defines and registers all custom Prometheus metrics for the
// support portal. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default registry on package init via
// promauto; the /metrics endpoint serves them together with the HTTP metrics
// collected by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "support"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreFailuresTotal counts persistence failures that were recovered locally.
// Labels:
//   - collection: "history", "comments" or "appointments"
//   - op: "read", "decode", "encode", "write" or "quarantine"
var StoreFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_failures_total",
		Help:      "Total number of recovered persistence failures.",
	},
	[]string{"collection", "op"},
)

// CommentsMigratedTotal counts comments documents rewritten into the
// canonical shape.
// Label:
//   - shape: the layout the document was recognised as (e.g. "list", "wrapped")
var CommentsMigratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_migrated_total",
		Help:      "Total number of comments documents normalised on load, by source shape.",
	},
	[]string{"shape"},
)

// CoordinatorQueueDepth tracks jobs waiting for each collection worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CoordinatorQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "coordinator_queue_depth",
		Help:      "Current number of collection jobs pending in each coordinator worker.",
	},
	[]string{"worker_id"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// CommentsPostedTotal counts accepted community posts.
// Label:
//   - topic: the topic the comment was posted to
var CommentsPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_posted_total",
		Help:      "Total number of community comments posted, by topic.",
	},
	[]string{"topic"},
)

// AppointmentsBookedTotal counts appointment requests written to the ledger.
var AppointmentsBookedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_booked_total",
		Help:      "Total number of appointment requests booked.",
	},
)

// CompletionDuration measures the external completion call.
// Label:
//   - result: "ok" or "fallback"
var CompletionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "completion_duration_seconds",
		Help:      "Duration of completion calls, including ones that fell back.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)

// CompletionFallbacksTotal counts replies substituted by the fallback string.
// Label:
//   - reason: "unconfigured", "timeout", "error" or "empty"
var CompletionFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_fallbacks_total",
		Help:      "Total number of chat replies that used the fallback string.",
	},
	[]string{"reason"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
