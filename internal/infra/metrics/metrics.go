// Package metrics provides Prometheus metrics for Royal Guard.
// Counters cover the game economy (XP, levels, tickets, pulls), store
// contention and the health checker; a histogram covers the HTTP API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "royalguard"

// ─── API ────────────────────────────────────────────────────────────────────

// RequestLatency tracks API request duration in seconds.
var RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "http_request_duration_seconds",
	Help:      "API request duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
}, []string{"method", "route", "status"})

// ─── Progression ────────────────────────────────────────────────────────────

// XPGranted tracks XP added by habit actions, by action.
var XPGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "xp_granted_total",
	Help:      "Total XP granted by habit actions.",
}, []string{"action"})

// XPRemoved tracks XP taken back when a habit is undone, by action.
var XPRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "xp_removed_total",
	Help:      "Total XP removed by undone habit actions.",
}, []string{"action"})

// LevelChanges tracks promotions ("up") and demotions ("down").
var LevelChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "level_changes_total",
	Help:      "Total level transitions by direction.",
}, []string{"direction"})

// ─── Tickets & Gacha ────────────────────────────────────────────────────────

// TicketsGranted tracks tickets granted by the bowel-movement milestone.
var TicketsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "tickets_granted_total",
	Help:      "Total gacha tickets granted.",
}, []string{"tier"})

// GachaPulls tracks completed pulls by ticket tier and won reward tier.
var GachaPulls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "gacha_pulls_total",
	Help:      "Total gacha pulls by ticket tier and reward tier.",
}, []string{"ticket", "reward_tier"})

// RewardsRedeemed tracks rewards handed out by parents.
var RewardsRedeemed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "rewards_redeemed_total",
	Help:      "Total won rewards marked as redeemed.",
})

// ─── Store ──────────────────────────────────────────────────────────────────

// VersionConflicts tracks lost compare-and-swap writes that were retried or
// surfaced to the caller.
var VersionConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "version_conflicts_total",
	Help:      "Total child document version conflicts.",
})

// EventPublishFailures tracks change events that could not be delivered.
var EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "event_publish_failures_total",
	Help:      "Total change events that failed to publish.",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})

// HealthRecoveries tracks auto-recovery attempts.
var HealthRecoveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "health_recoveries_total",
	Help:      "Total auto-recovery attempts per check.",
}, []string{"check"})
