// Package metrics exposes Prometheus counters for the bot's hot paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesIngested counts stored status messages by resolved category.
	MessagesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "messages_ingested_total",
		Help:      "Status messages stored, labeled by attendance category.",
	}, []string{"category"})

	// DuplicateEvents counts redelivered messages rejected by the store.
	DuplicateEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "duplicate_events_total",
		Help:      "Redelivered message events suppressed by idempotent insert.",
	})

	// EditsApplied counts message edits that produced a revision.
	EditsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "edits_applied_total",
		Help:      "Message edits that updated a stored record.",
	})

	// ClassifierFailures counts model calls that degraded to a fallback.
	ClassifierFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "classifier_failures_total",
		Help:      "Model calls that failed and fell back, labeled by kind (category, dates).",
	}, []string{"kind"})

	// CommandsHandled counts report commands by command name.
	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "commands_handled_total",
		Help:      "Mention commands handled, labeled by command.",
	}, []string{"command"})

	// SlackAPIErrors counts failed outbound Slack Web API calls.
	SlackAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "slack_api_errors_total",
		Help:      "Failed Slack Web API calls, labeled by method.",
	}, []string{"method"})
)

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
