package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// runWithDeadline fires reaction with rctx, after a pre-invocation check
// of how far physical time has drifted past the tag it is firing at. A
// deadline bounds that lag, not the body's own execution time: if the
// lag already exceeds the declared deadline before the body runs, the
// registered handler fires in place of the body, never in addition to
// it. With no handler registered, the violation is logged and the body
// runs as the fallback policy.
func (a *App) runWithDeadline(ctx context.Context, reaction *reactor.Reaction, rctx *reactor.Context) error {
	deadline, hasDeadline := reaction.Deadline()
	if !hasDeadline {
		return reaction.Fire(rctx)
	}

	now := domain.TimeValue(time.Since(a.physicalStart))
	var lag domain.TimeValue
	if now > rctx.Tag.Time {
		lag = now - rctx.Tag.Time
	}
	if lag <= deadline {
		return reaction.Fire(rctx)
	}

	violation := domain.NewDeadlineViolationError(reaction.FQName(), deadline, lag)
	if a.tracer != nil {
		a.tracer.DeadlineViolation(ctx, violation)
	}

	if reaction.HasDeadlineHandler() {
		return reaction.FireDeadlineHandler(rctx)
	}

	log.Printf("scheduler: %s", violation)
	return reaction.Fire(rctx)
}
