// Package metrics defines and registers all custom Prometheus metrics for
// the field service API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fieldservice"

// ── Scheduling metrics ────────────────────────────────────────────────────────

// JobsCreatedTotal counts newly created jobs.
// Label:
//   - kind: "single" or "recurring"
var JobsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "jobs_created_total",
		Help:      "Total number of jobs created, by kind.",
	},
	[]string{"kind"},
)

// OccurrencesExpandedTotal counts materialized occurrences of recurring jobs.
// Label:
//   - trigger: "regenerate" or "extend_horizon"
var OccurrencesExpandedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "occurrences_expanded_total",
		Help:      "Total number of occurrences materialized, by trigger.",
	},
	[]string{"trigger"},
)

// FunctionInvocationsTotal counts RPC-style function invocations.
// Labels:
//   - function: the invoked function name (e.g. "extend-horizon")
//   - result: "ok" or "error"
var FunctionInvocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "function_invocations_total",
		Help:      "Total number of named function invocations, by result.",
	},
	[]string{"function", "result"},
)

// ── Permission gate metrics ───────────────────────────────────────────────────

// PermissionChecksTotal counts gate decisions.
// Labels:
//   - permission: the required permission key
//   - outcome: "authorized", "denied", or "unauthenticated"
var PermissionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_checks_total",
		Help:      "Total number of permission gate decisions, by outcome.",
	},
	[]string{"permission", "outcome"},
)

// PermissionCacheTotal counts permission-set cache lookups.
// Label:
//   - result: "hit" or "miss"
var PermissionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_cache_total",
		Help:      "Total number of permission cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// RegenQueueDepth tracks the number of regeneration requests waiting in each
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RegenQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "regen_queue_depth",
		Help:      "Current number of regeneration requests pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)
