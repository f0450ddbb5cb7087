package ports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockMetricsCollector implements MetricsCollector interface
type mockMetricsCollector struct {
	latencies  []time.Duration
	counters   map[string]float64
	gauges     map[string]float64
	histograms map[string][]float64
}

// newMockMetricsCollector creates a new mock metrics collector for testing.
func newMockMetricsCollector() *mockMetricsCollector {
	return &mockMetricsCollector{
		latencies:  []time.Duration{},
		counters:   make(map[string]float64),
		gauges:     make(map[string]float64),
		histograms: make(map[string][]float64),
	}
}

func (m *mockMetricsCollector) RecordLatency(operation string, duration time.Duration, labels map[string]string) {
	m.latencies = append(m.latencies, duration)
}

func (m *mockMetricsCollector) RecordCounter(metric string, value float64, labels map[string]string) {
	m.counters[metric] += value
}

func (m *mockMetricsCollector) RecordGauge(metric string, value float64, labels map[string]string) {
	m.gauges[metric] = value
}

func (m *mockMetricsCollector) RecordHistogram(metric string, value float64, labels map[string]string) {
	m.histograms[metric] = append(m.histograms[metric], value)
}

func TestInterfaces_Implementation(t *testing.T) {
	var _ MetricsCollector = (*mockMetricsCollector)(nil)
}

func TestMetricsCollector_Recording(t *testing.T) {
	metrics := newMockMetricsCollector()
	labels := map[string]string{"unit": "test"}

	metrics.RecordLatency("operation1", 100*time.Millisecond, labels)
	assert.Len(t, metrics.latencies, 1, "RecordLatency() should record one duration")
	assert.Equal(t, 100*time.Millisecond, metrics.latencies[0], "RecordLatency() duration mismatch")

	metrics.RecordCounter("reactions_fired", 1, labels)
	metrics.RecordCounter("reactions_fired", 2, labels)
	assert.Equal(t, float64(3), metrics.counters["reactions_fired"], "RecordCounter() sum mismatch")

	metrics.RecordGauge("queue_depth", 10, labels)
	metrics.RecordGauge("queue_depth", 5, labels)
	assert.Equal(t, float64(5), metrics.gauges["queue_depth"], "RecordGauge() value mismatch")

	metrics.RecordHistogram("tag_latency_seconds", 0.001, labels)
	metrics.RecordHistogram("tag_latency_seconds", 0.002, labels)
	assert.Len(t, metrics.histograms["tag_latency_seconds"], 2, "RecordHistogram() should record two values")
}
