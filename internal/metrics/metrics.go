// Package metrics registers the Prometheus instruments for the sync engine.
// Everything registers on the default registry and is exposed by the
// server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts datasource operations by name and outcome
	// ("ok", "not_found", "transient", "error").
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traveltracker",
		Name:      "datasource_operations_total",
		Help:      "Datasource operations by name and outcome.",
	}, []string{"op", "outcome"})

	// Merges counts merge engine runs by whether the local copy changed.
	Merges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traveltracker",
		Name:      "merges_total",
		Help:      "Merge engine runs by result.",
	}, []string{"result"})

	// PushDuration observes the wall time of a full PushLocalChanges cycle.
	PushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "traveltracker",
		Name:      "push_duration_seconds",
		Help:      "Duration of PushLocalChanges cycles.",
		Buckets:   prometheus.DefBuckets,
	})

	// DirtyDocuments tracks how many documents are waiting for the next
	// push.
	DirtyDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "traveltracker",
		Name:      "dirty_documents",
		Help:      "Documents mutated since their last successful push.",
	})
)

// ObserveOperation records one datasource operation outcome.
func ObserveOperation(op, outcome string) {
	Operations.WithLabelValues(op, outcome).Inc()
}

// ObserveMerge records one merge engine run.
func ObserveMerge(changed bool) {
	if changed {
		Merges.WithLabelValues("changed").Inc()
	} else {
		Merges.WithLabelValues("unchanged").Inc()
	}
}
