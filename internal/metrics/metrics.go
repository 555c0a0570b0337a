// Package metrics holds the Prometheus collectors of the symptom mapper.
// Collectors are registered on the default registry and served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "symptom_mapper"

var (
	// resolveTotal counts resolved queries.
	// Labels: result (matched, empty, degraded)
	resolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolve",
		Name:      "queries_total",
		Help:      "Total resolved queries by result",
	}, []string{"result"})

	// resolveLatencySeconds measures end-to-end resolve latency.
	resolveLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "resolve",
		Name:      "latency_seconds",
		Help:      "End-to-end latency of a single query resolution",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	})

	// chunksTotal counts chunks by outcome.
	// Labels: outcome (accepted, best_guess, none)
	chunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolve",
		Name:      "chunks_total",
		Help:      "Total chunks by match outcome",
	}, []string{"outcome"})

	// strategyTotal counts accepted matches by winning strategy tag.
	strategyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "resolve",
		Name:      "accepted_strategy_total",
		Help:      "Total accepted chunk matches by strategy",
	}, []string{"strategy"})

	// unmappedTotal counts unmapped-term records.
	// Labels: status (written, dropped_queue_full, dropped_closed, write_failed)
	unmappedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "feedback",
		Name:      "unmapped_terms_total",
		Help:      "Total unmapped-term records by delivery status",
	}, []string{"status"})

	// reloadTotal counts snapshot reloads.
	// Labels: target (dictionary, typo_rules), status (success, failure)
	reloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "reloads_total",
		Help:      "Total snapshot reloads by target and status",
	}, []string{"target", "status"})

	// dictionaryEntries reports the entry count of the published dictionary.
	dictionaryEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "dictionary_entries",
		Help:      "Number of entries in the published dictionary snapshot",
	})

	// jobsTotal counts finished background jobs.
	// Labels: type, status (completed, failed, cancelled)
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "finished_total",
		Help:      "Total finished background jobs by type and status",
	}, []string{"type", "status"})

	// jobDurationSeconds measures job execution time.
	jobDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "jobs",
		Name:      "duration_seconds",
		Help:      "Background job execution time",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type"})
)

// Chunk outcome labels.
const (
	OutcomeAccepted  = "accepted"
	OutcomeBestGuess = "best_guess"
	OutcomeNone      = "none"
)

// Unmapped-term delivery labels.
const (
	UnmappedWritten     = "written"
	UnmappedQueueFull   = "dropped_queue_full"
	UnmappedClosed      = "dropped_closed"
	UnmappedWriteFailed = "write_failed"
)

// RecordResolve records one resolved query.
func RecordResolve(matches int, degraded bool, took time.Duration) {
	result := "matched"
	switch {
	case degraded:
		result = "degraded"
	case matches == 0:
		result = "empty"
	}
	resolveTotal.WithLabelValues(result).Inc()
	resolveLatencySeconds.Observe(took.Seconds())
}

// RecordChunk records the outcome of one chunk and, when accepted, its strategy.
func RecordChunk(outcome, strategy string) {
	chunksTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeAccepted && strategy != "" {
		strategyTotal.WithLabelValues(strategy).Inc()
	}
}

// RecordUnmapped records the delivery status of an unmapped-term record.
func RecordUnmapped(status string) {
	unmappedTotal.WithLabelValues(status).Inc()
}

// RecordReload records a snapshot reload attempt.
func RecordReload(target string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	reloadTotal.WithLabelValues(target, status).Inc()
}

// SetDictionaryEntries publishes the entry count of the current dictionary.
func SetDictionaryEntries(n int) {
	dictionaryEntries.Set(float64(n))
}

// RecordJob records a finished job.
func RecordJob(jobType, status string, took time.Duration) {
	jobsTotal.WithLabelValues(jobType, status).Inc()
	jobDurationSeconds.WithLabelValues(jobType).Observe(took.Seconds())
}
