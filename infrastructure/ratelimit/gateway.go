// Package ratelimit is the entry point external physical-action
// callbacks go through before an event reaches the scheduler's queue.
// It wraps golang.org/x/time/rate with one token-bucket limiter per
// guarded action, consulted non-blockingly rather than awaited, since a
// physical callback that exceeds its action's MIT should be dropped,
// not stalled.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/ports"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// Gateway guards a single physical action with a token-bucket limiter
// sized from the action's declared minimum inter-arrival time (MIT). A
// rejected Offer is dropped with a counted metric rather than surfaced
// as an error to the caller, since physical inputs are asynchronous by
// nature and have no one to report a failure to.
type Gateway[T any] struct {
	action  *reactor.Action[T]
	sink    reactor.EventSink
	metrics ports.MetricsCollector

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewGateway constructs a Gateway for action, sized to allow at most
// one arrival per action.MIT() with a burst of one. metrics is
// optional; a nil collector disables the dropped-offer counter.
func NewGateway[T any](action *reactor.Action[T], sink reactor.EventSink, metrics ports.MetricsCollector) *Gateway[T] {
	mit := action.MIT()
	limit := rate.Inf
	if mit > 0 {
		limit = rate.Every(mit.Duration())
	}
	return &Gateway[T]{
		action:  action,
		sink:    sink,
		metrics: metrics,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Offer attempts to enqueue value for delivery at base (the caller's
// physical-now tag) plus the action's own minDelay, subject to k being
// the action owner's capability key. It returns true if the token
// bucket admitted the arrival and the event was pushed onto the queue,
// or false if the MIT was violated and the arrival was dropped.
func (g *Gateway[T]) Offer(k reactor.Key, base domain.Tag, value T) (bool, error) {
	g.mu.Lock()
	allowed := g.limiter.Allow()
	g.mu.Unlock()

	if !allowed {
		if g.metrics != nil {
			g.metrics.RecordCounter("physical_action_drops_total", 1,
				map[string]string{"unit": g.action.FQName()})
		}
		return false, nil
	}

	if err := g.action.Schedule(k, g.sink, base, 0, value); err != nil {
		return false, err
	}
	return true, nil
}
