// Package metrics provides Prometheus-backed operational metrics for the
// scheduler: queue depth, tag advancement, reaction firings, deadline
// violations, and mutation commits/rollbacks.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/reactor-core/internal/ports"
)

// Collector implements ports.MetricsCollector using Prometheus. It is an
// optional collaborator the scheduler calls into at well-defined points;
// a nil *Collector is never required for App.Start to run.
type Collector struct {
	queueDepth       *prometheus.GaugeVec
	tagsProcessed    *prometheus.CounterVec
	reactionLatency  *prometheus.HistogramVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewCollector creates a Collector and registers its metrics in the
// global Prometheus registry.
func NewCollector() *Collector {
	return &Collector{
		queueDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reactor_queue_depth",
				Help: "Number of events pending in the scheduler's event queue.",
			},
			[]string{"metric"},
		),
		tagsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactor_tags_processed_total",
				Help: "Total number of logical tags the scheduler has processed.",
			},
			[]string{"unit"},
		),
		reactionLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reactor_reaction_duration_seconds",
				Help:    "Execution time of a single reaction firing.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "unit"},
		),
		operationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reactor_operations_total",
				Help: "Total number of scheduler operations performed, by outcome.",
			},
			[]string{"operation", "status", "unit"},
		),
		systemGauges: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "reactor_system_state",
				Help: "Current scheduler state values (queue depth, active reactor count, etc).",
			},
			[]string{"metric", "unit"},
		),
	}
}

// RecordLatency implements ports.MetricsCollector by recording execution
// latency in a Prometheus histogram.
func (c *Collector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	unit := labelOr(labels, "unit", "unknown")
	c.reactionLatency.WithLabelValues(operation, unit).Observe(duration.Seconds())
}

// RecordCounter implements ports.MetricsCollector by incrementing a
// Prometheus counter.
func (c *Collector) RecordCounter(metric string, value float64, labels map[string]string) {
	unit := labelOr(labels, "unit", "unknown")

	switch metric {
	case "tags_processed":
		c.tagsProcessed.WithLabelValues(unit).Add(value)
	case "deadline_violations_total":
		c.operationCounter.WithLabelValues("deadline_check", "violated", unit).Add(value)
	case "mutation_commits_total":
		c.operationCounter.WithLabelValues("mutation", "committed", unit).Add(value)
	case "mutation_rollbacks_total":
		c.operationCounter.WithLabelValues("mutation", "rolled_back", unit).Add(value)
	default:
		c.operationCounter.WithLabelValues(metric, "success", unit).Add(value)
	}
}

// RecordGauge implements ports.MetricsCollector by setting a Prometheus
// gauge value.
func (c *Collector) RecordGauge(metric string, value float64, labels map[string]string) {
	unit := labelOr(labels, "unit", "unknown")

	if metric == "queue_depth" {
		c.queueDepth.WithLabelValues(metric).Set(value)
		return
	}
	c.systemGauges.WithLabelValues(metric, unit).Set(value)
}

// RecordHistogram implements ports.MetricsCollector. All histograms route
// to the reaction-duration histogram with metric as the operation label,
// since the scheduler's only latency distribution of interest today is
// per-reaction timing.
func (c *Collector) RecordHistogram(metric string, value float64, labels map[string]string) {
	unit := labelOr(labels, "unit", "unknown")
	c.reactionLatency.WithLabelValues(metric, unit).Observe(value)
}

func labelOr(labels map[string]string, key, fallback string) string {
	if v, ok := labels[key]; ok {
		return v
	}
	return fallback
}

var _ ports.MetricsCollector = (*Collector)(nil)
