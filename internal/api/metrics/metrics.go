// Package metrics defines the custom Prometheus collectors of the site API.
// All collectors are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site"

// ── Content metrics ───────────────────────────────────────────────────────────

// ContentMutationsTotal counts successful admin writes.
// Labels:
//   - resource: "article" or "job"
//   - action: "create", "update" or "delete"
var ContentMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_mutations_total",
		Help:      "Total number of successful content mutations, by resource and action.",
	},
	[]string{"resource", "action"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "invalid", "locked" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// AdminSeedTotal counts bootstrap runs that created the admin account.
// It should never exceed one per database.
var AdminSeedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_seed_total",
		Help:      "Total number of times the bootstrap admin account was created.",
	},
)

// ── Database metrics ──────────────────────────────────────────────────────────

// DBConnectAttemptsTotal counts shared connection attempts.
// Label:
//   - outcome: "success" or "failure"
var DBConnectAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "db_connect_attempts_total",
		Help:      "Total number of database connection attempts, by outcome.",
	},
	[]string{"outcome"},
)

// ObserveDBConnect records a connection attempt outcome. Its signature fits
// the connector's attempt observer.
func ObserveDBConnect(outcome string) {
	DBConnectAttemptsTotal.WithLabelValues(outcome).Inc()
}
