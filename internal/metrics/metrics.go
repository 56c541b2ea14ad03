// Package metrics registers the Prometheus counters and histograms the
// core increments. It never serves /metrics itself — that belongs to
// the (out-of-scope) dashboard process; this package only exposes a
// Registry for the composition root to register and scrape from.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles the core's instrumentation. The zero value is not
// usable; construct with NewRegistry.
type Registry struct {
	RehydrationDuration prometheus.Histogram
	DiffApplyFailures   prometheus.Counter
	ReplayMatches       prometheus.Counter
	ReplayMismatches    prometheus.Counter
}

// NewRegistry creates a fresh Registry and registers every metric with
// reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		RehydrationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "temporalcore",
			Subsystem: "rehydrate",
			Name:      "duration_seconds",
			Help:      "Time spent reconstructing VFS state for one rehydrate call.",
			Buckets:   prometheus.DefBuckets,
		}),
		DiffApplyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temporalcore",
			Subsystem: "rehydrate",
			Name:      "diff_apply_failures_total",
			Help:      "Diffs that failed to apply during rehydration and were tolerated.",
		}),
		ReplayMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temporalcore",
			Subsystem: "replay",
			Name:      "matches_total",
			Help:      "Replays whose re-executed output matched the recorded one.",
		}),
		ReplayMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "temporalcore",
			Subsystem: "replay",
			Name:      "mismatches_total",
			Help:      "Replays whose re-executed output diverged from the recorded one.",
		}),
	}

	reg.MustRegister(m.RehydrationDuration, m.DiffApplyFailures, m.ReplayMatches, m.ReplayMismatches)
	return m
}
