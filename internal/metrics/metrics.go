// Package metrics holds the engine's Prometheus collectors.
package metrics

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"github.com/rotisserie/eris"
)

const namespace = "moodmap"

var (
	// ProviderCalls counts place provider calls by operation and outcome.
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Place provider calls by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	// SubqueryFailures counts aggregator sub-queries that failed and were dropped.
	SubqueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subquery_failures_total",
			Help:      "Aggregator sub-queries that failed",
		},
		[]string{"kind"},
	)

	// SearchDuration observes end-to-end aggregator latency.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of aggregated place searches",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// SearchResults observes how many unique places a search produced.
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Unique places returned per aggregated search",
			Buckets:   []float64{0, 1, 5, 10, 15, 20},
		},
	)

	// Sessions counts search sessions by terminal state.
	Sessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Search sessions by terminal state",
		},
		[]string{"state"},
	)

	// CacheLookups counts detail cache hits and misses.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_cache_lookups_total",
			Help:      "Place detail cache lookups",
		},
		[]string{"result"},
	)
)

// WriteText writes every moodmap metric family in the Prometheus text format.
func WriteText(w io.Writer) error {
	return writeText(w, prometheus.DefaultGatherer)
}

func writeText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return eris.Wrap(err, "metrics: gather")
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return eris.Wrapf(err, "metrics: encode %s", mf.GetName())
		}
	}
	return nil
}
