// Package metrics defines all custom Prometheus metrics for the medical
// union API. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medunion"

// ── Account lifecycle ────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "ok", or the failing error kind (e.g. "DUPLICATE_USERNAME")
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", or the failing error kind (e.g. "INVALID_CREDENTIALS")
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRevocationsTotal counts explicit logouts that revoked a token.
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of tokens revoked by logout.",
	},
)

// ── Authorization middleware ─────────────────────────────────────────────────

// TokenValidationsTotal counts token checks performed by the middleware.
// Label:
//   - result: "ok", "missing", "invalid", or "revoked"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer-token validations, by result.",
	},
	[]string{"result"},
)

// ── Stored-procedure gateway ─────────────────────────────────────────────────

// ProcedureCallDuration measures one gateway call end-to-end, including the
// wait for a pooled connection and the commit.
// Label:
//   - procedure: the stored procedure name (e.g. "user_register")
var ProcedureCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "procedure_call_duration_seconds",
		Help:      "Duration of stored-procedure gateway calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"procedure"},
)

// ProcedureCallErrors counts gateway calls that ended in a synthesized
// infrastructure outcome (driver fault, timeout, missing result code).
// Label:
//   - procedure: the stored procedure name
var ProcedureCallErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "procedure_call_errors_total",
		Help:      "Total number of gateway calls that failed at the infrastructure level.",
	},
	[]string{"procedure"},
)
