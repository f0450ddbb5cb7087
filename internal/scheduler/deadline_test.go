package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
	"github.com/ahrav/reactor-core/infrastructure/telemetry"
)

type deadlineMockMetrics struct {
	counters map[string]float64
}

func newDeadlineMockMetrics() *deadlineMockMetrics {
	return &deadlineMockMetrics{counters: map[string]float64{}}
}

func (m *deadlineMockMetrics) RecordLatency(string, time.Duration, map[string]string) {}
func (m *deadlineMockMetrics) RecordCounter(metric string, value float64, _ map[string]string) {
	m.counters[metric] += value
}
func (m *deadlineMockMetrics) RecordGauge(string, float64, map[string]string)     {}
func (m *deadlineMockMetrics) RecordHistogram(string, float64, map[string]string) {}

// TestRun_DeadlineHandlerFiresInsteadOfBody confirms a zero-tolerance
// deadline is detected pre-invocation: by the time Startup fires, real
// elapsed time since physicalStart is already positive, which exceeds a
// deadline of zero, so the handler must run and the body must not.
func TestRun_DeadlineHandlerFiresInsteadOfBody(t *testing.T) {
	app := NewApp().WithFast(true)
	r, err := reactor.NewReactor(app.Root(), "r")
	require.NoError(t, err)

	var bodyRan, handlerRan bool
	_, err = r.AddReaction(reactor.ReactionSpec{
		Name:     "react",
		Triggers: []reactor.Trigger{r.Startup()},
		Body: func(ctx *reactor.Context) error {
			bodyRan = true
			return nil
		},
		HasDeadline: true,
		Deadline:    domain.Zero,
		DeadlineHandler: func(ctx *reactor.Context) error {
			handlerRan = true
			return nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, app.Start())
	assert.True(t, handlerRan, "deadline handler must fire in place of the body")
	assert.False(t, bodyRan, "body must not fire once a pre-invocation violation is detected")
}

// TestRun_NoDeadlineViolationRunsBodyOnly confirms a generous deadline
// never triggers the handler.
func TestRun_NoDeadlineViolationRunsBodyOnly(t *testing.T) {
	app := NewApp().WithFast(true)
	r, err := reactor.NewReactor(app.Root(), "r")
	require.NoError(t, err)

	var bodyRan, handlerRan bool
	_, err = r.AddReaction(reactor.ReactionSpec{
		Name:     "react",
		Triggers: []reactor.Trigger{r.Startup()},
		Body: func(ctx *reactor.Context) error {
			bodyRan = true
			return nil
		},
		HasDeadline: true,
		Deadline:    domain.TimeValue(time.Hour),
		DeadlineHandler: func(ctx *reactor.Context) error {
			handlerRan = true
			return nil
		},
	})
	require.NoError(t, err)

	require.NoError(t, app.Start())
	assert.True(t, bodyRan)
	assert.False(t, handlerRan)
}

// TestRun_DeadlineViolationWithNoHandlerFallsBackToBody confirms the
// logging fallback still runs the body when no handler is registered.
func TestRun_DeadlineViolationWithNoHandlerFallsBackToBody(t *testing.T) {
	app := NewApp().WithFast(true)
	r, err := reactor.NewReactor(app.Root(), "r")
	require.NoError(t, err)

	var bodyRan bool
	_, err = r.AddReaction(reactor.ReactionSpec{
		Name:     "react",
		Triggers: []reactor.Trigger{r.Startup()},
		Body: func(ctx *reactor.Context) error {
			bodyRan = true
			return nil
		},
		HasDeadline: true,
		Deadline:    domain.Zero,
	})
	require.NoError(t, err)

	require.NoError(t, app.Start())
	assert.True(t, bodyRan)
}

// TestRun_DeadlineViolationReportsThroughTracer confirms a pre-invocation
// violation is reported through the configured Tracer, not just logged.
func TestRun_DeadlineViolationReportsThroughTracer(t *testing.T) {
	metrics := newDeadlineMockMetrics()
	app := NewApp().WithFast(true).WithTelemetry(telemetry.NewTracer("test", metrics))
	r, err := reactor.NewReactor(app.Root(), "r")
	require.NoError(t, err)

	_, err = r.AddReaction(reactor.ReactionSpec{
		Name:        "react",
		Triggers:    []reactor.Trigger{r.Startup()},
		Body:        func(ctx *reactor.Context) error { return nil },
		HasDeadline: true,
		Deadline:    domain.Zero,
	})
	require.NoError(t, err)

	require.NoError(t, app.Start())
	assert.Equal(t, float64(1), metrics.counters["deadline_violations_total"])
}
