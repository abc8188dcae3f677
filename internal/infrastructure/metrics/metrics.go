// Package metrics defines and registers the custom Prometheus metrics of the
// integration hub. It is the single source of truth for metric names, labels
// and help strings. HTTP request metrics come from echoprometheus instead.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskifye"

// ── Credential metrics ────────────────────────────────────────────────────────

// APIKeyCacheLookupsTotal counts API-key cache lookups.
// Label:
//   - result: "hit" or "miss"
var APIKeyCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "apikey_cache_lookups_total",
		Help:      "Total number of API-key cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// CredentialInvalidationsTotal counts cache invalidations.
// Label:
//   - source: "local" (this instance wrote) or "remote" (received on the bus)
var CredentialInvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_invalidations_total",
		Help:      "Total number of API-key cache invalidations, by source.",
	},
	[]string{"source"},
)

// ── OAuth metrics ─────────────────────────────────────────────────────────────

// OAuthCallbacksTotal counts OAuth callbacks by terminal outcome.
// Labels:
//   - provider: e.g. "quickbooks"
//   - outcome: "success" or the error code sent to the UI
var OAuthCallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oauth_callbacks_total",
		Help:      "Total number of OAuth callbacks, by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

// ── SMS metrics ───────────────────────────────────────────────────────────────

// SmsMessagesTotal counts recorded SMS messages.
// Labels:
//   - direction: "inbound" or "outbound"
//   - status: the recorded message status
var SmsMessagesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sms_messages_total",
		Help:      "Total number of SMS messages recorded, by direction and status.",
	},
	[]string{"direction", "status"},
)

// ProviderRequestDuration measures outbound calls to third-party providers.
// Labels:
//   - provider: e.g. "twilio", "quickbooks"
//   - result: "ok" or "error"
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of outbound requests to third-party providers.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "result"},
)

// ResultLabel maps an error to the "result" label value.
func ResultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
