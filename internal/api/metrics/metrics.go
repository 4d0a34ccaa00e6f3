// Package metrics defines all custom Prometheus metrics for the
// marketplace API. It is the single source of truth for metric names,
// labels, and help strings; promauto registers everything with the
// default registry at package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// RegistrationsTotal counts registration attempts.
// Labels:
//   - result: "success", "email_conflict", "phone_conflict", "invalid", "error"
//   - user_type: "customer" or "provider" ("" on invalid input)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of registration attempts, by result and user type.",
	},
	[]string{"result", "user_type"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionsResolvedTotal counts session-cookie resolutions.
// Label:
//   - result: "success" or "invalid" (absent, expired, tampered, or orphaned)
var SessionsResolvedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_sessions_resolved_total",
		Help:      "Total number of session resolutions from the auth cookie, by result.",
	},
	[]string{"result"},
)

// RegisterDuration measures end-to-end registration time. The bcrypt
// work factor dominates, so the buckets skew high.
var RegisterDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_register_duration_seconds",
		Help:      "Duration of registration requests, dominated by password hashing.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5},
	},
)
