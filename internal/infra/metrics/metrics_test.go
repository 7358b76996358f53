package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func gatheredNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestRequestLatency_Registered(t *testing.T) {
	RequestLatency.WithLabelValues("POST", "/api/v1/children/{id}/water", "200").Observe(0.01)

	if !gatheredNames(t)["royalguard_http_request_duration_seconds"] {
		t.Error("royalguard_http_request_duration_seconds not found in gathered metrics")
	}
}

func TestProgressionCounters(t *testing.T) {
	before := testutil.ToFloat64(XPGranted.WithLabelValues("water"))
	XPGranted.WithLabelValues("water").Add(20)
	XPRemoved.WithLabelValues("veggie").Add(30)
	LevelChanges.WithLabelValues("up").Inc()

	if got := testutil.ToFloat64(XPGranted.WithLabelValues("water")); got != before+20 {
		t.Errorf("xp_granted{water} = %v, want %v", got, before+20)
	}

	names := gatheredNames(t)
	for _, want := range []string{
		"royalguard_xp_granted_total",
		"royalguard_xp_removed_total",
		"royalguard_level_changes_total",
	} {
		if !names[want] {
			t.Errorf("metric %q not found", want)
		}
	}
}

func TestEconomyCounters(t *testing.T) {
	TicketsGranted.WithLabelValues("silver").Inc()
	GachaPulls.WithLabelValues("silver", "COMMON").Inc()
	RewardsRedeemed.Inc()
	VersionConflicts.Inc()
	EventPublishFailures.Inc()

	names := gatheredNames(t)
	for _, want := range []string{
		"royalguard_tickets_granted_total",
		"royalguard_gacha_pulls_total",
		"royalguard_rewards_redeemed_total",
		"royalguard_version_conflicts_total",
		"royalguard_event_publish_failures_total",
	} {
		if !names[want] {
			t.Errorf("metric %q not found", want)
		}
	}
}

func TestHealthMetrics(t *testing.T) {
	HealthCheckStatus.WithLabelValues("sqlite").Set(1)
	HealthRecoveries.WithLabelValues("sqlite").Inc()

	if got := testutil.ToFloat64(HealthCheckStatus.WithLabelValues("sqlite")); got != 1 {
		t.Errorf("health_check_status{sqlite} = %v, want 1", got)
	}
}
