// Package metrics provides Prometheus instrumentation for the moderation
// bot: decision counts by verdict, classifier failures by kind, and message
// deletions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DecisionsTotal counts pipeline verdicts, labeled "allow" or "block".
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderator_decisions_total",
		Help: "Total number of moderation decisions",
	}, []string{"verdict"})

	// ClassifierErrorsTotal counts judge failures by kind.
	ClassifierErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderator_classifier_errors_total",
		Help: "Total number of classifier transport failures",
	}, []string{"kind"})

	// DeletionsTotal counts removed messages, labeled by result.
	DeletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderator_deletions_total",
		Help: "Total number of message deletion attempts",
	}, []string{"result"}) // result = "ok", "error"

	// ClassifyDuration records end-to-end classification latency in seconds.
	ClassifyDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "moderator_classify_duration_seconds",
		Help:    "End-to-end classification latency in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2, 5, 10, 15, 20},
	})
)

func init() {
	prometheus.MustRegister(
		DecisionsTotal,
		ClassifierErrorsTotal,
		DeletionsTotal,
		ClassifyDuration,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
