// Package metrics defines and registers the custom Prometheus metrics of the
// publishing API. It is the single source of truth for metric names, labels
// and help strings.
//
// All metrics are registered with the default registry at package init via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Access control ───────────────────────────────────────────────────────────

// PolicyDecisionsTotal counts access-control decisions.
// Labels:
//   - rule: name of the first matching rule (e.g. "admin", "catch-all")
//   - outcome: "allow", "authentication_required" or "access_denied"
var PolicyDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "policy_decisions_total",
		Help:      "Total number of access-control decisions, by rule and outcome.",
	},
	[]string{"rule", "outcome"},
)

// ── Accounts ─────────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// ── Content ──────────────────────────────────────────────────────────────────

// PostsCreatedTotal counts posts successfully created.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// CommentsCreatedTotal counts comments successfully created.
var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// IntegrityFaultsTotal counts writes rejected because a reference that must
// exist did not resolve.
// Label:
//   - kind: short description (e.g. "comment_author_missing", "post_author_missing")
var IntegrityFaultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "integrity_faults_total",
		Help:      "Total number of relational integrity faults detected on write paths.",
	},
	[]string{"kind"},
)

// ── Activity trail ───────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts entries discarded because a worker queue was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity entries dropped because the queue was full.",
	},
)

// ActivityWriteErrorsTotal counts failed activity inserts.
var ActivityWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_write_errors_total",
		Help:      "Total number of activity entries that failed to persist.",
	},
)
