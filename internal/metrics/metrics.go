// Package metrics defines the custom Prometheus metrics of the EducTrack API.
// All collectors register with the default registry on package init through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eductrack"

// ── OTP metrics ───────────────────────────────────────────────────────────────

// OTPRequestsTotal counts issued codes.
// Label:
//   - role: "admin", "teacher" or "parent"
var OTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "otp_requests_total",
		Help:      "Total number of one-time codes issued, by role.",
	},
	[]string{"role"},
)

// OTPVerificationsTotal counts verification outcomes.
// Label:
//   - result: "success", "not_found", "expired", "invalid", "locked" or "error"
var OTPVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "otp_verifications_total",
		Help:      "Total number of one-time code verifications, by result.",
	},
	[]string{"result"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// OTPDispatchErrorsTotal counts codes that could not be handed to the provider.
// Label:
//   - provider: "console", "smtp", "sendgrid" or "queue" when the queue was full
var OTPDispatchErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "otp_dispatch_errors_total",
		Help:      "Total number of OTP emails that failed to dispatch.",
	},
	[]string{"provider"},
)

// MailQueueDepth tracks pending emails per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "mail",
		Name:      "queue_depth",
		Help:      "Current number of emails pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// MailDispatchDuration measures one provider call.
// Label:
//   - provider: the configured mail provider
var MailDispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "mail",
		Name:      "dispatch_duration_seconds",
		Help:      "Duration of a single OTP email delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider"},
)
