package scheduler

import (
	"context"
	"time"

	"github.com/ahrav/reactor-core/internal/connection"
	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// run drives the main loop until the queue is exhausted (or
// keepAlive/timeout say otherwise), a stop is requested, or a reaction
// body fails.
func (a *App) run() error {
	for {
		if a.stopRequested.Load() {
			return a.shutdown(nil)
		}

		tag, ok := a.queue.PeekTag()
		if !ok {
			if a.keepAlive && !a.timedOut(a.currentReferenceTag()) {
				time.Sleep(time.Millisecond)
				continue
			}
			return a.shutdown(nil)
		}

		if a.hasTimeout && tag.Time > a.timeout {
			return a.shutdown(nil)
		}

		if !a.fast {
			target := a.physicalStart.Add(tag.Time.Duration())
			if d := time.Until(target); d > 0 {
				time.Sleep(d)
			}
		}

		if err := a.processTag(tag); err != nil {
			a.fail(err)
			return err
		}
	}
}

// currentReferenceTag reports the tag the keepAlive timeout check
// measures against: the last tag actually processed.
func (a *App) currentReferenceTag() domain.Tag { return a.currentTag }

func (a *App) timedOut(ref domain.Tag) bool {
	return a.hasTimeout && ref.Time >= a.timeout
}

// processTag runs one tag's worth of the main loop for the events
// pending at tag: drain, rebuild the firing set, fire reactions level
// by level, clear presence, and re-arm periodic timers.
func (a *App) processTag(tag domain.Tag) error {
	a.currentTag = tag

	var endSpan func(error)
	ctx := context.Background()
	if a.tracer != nil {
		ctx, endSpan = a.tracer.TagSpan(ctx, tag)
	}

	events := a.queue.DrainTag(tag)
	for _, ev := range events {
		ev.Deliver()
	}

	for _, ev := range events {
		if timer, ok := ev.Trigger.(*reactor.Timer); ok {
			if next, again, err := timer.NextFireTag(tag); err == nil && again {
				if !a.hasTimeout || next.Time <= a.timeout {
					a.queue.PushEvent(next, timer, timer.FireClosure())
				}
			}
		}
	}

	err := a.fireByLevel(ctx)
	a.clearPresence()

	if a.metrics != nil {
		a.metrics.RecordCounter("tags_processed", 1, map[string]string{"unit": "tag"})
		a.metrics.RecordGauge("queue_depth", float64(a.queue.Len()), nil)
	}
	if endSpan != nil {
		endSpan(err)
	}
	return err
}

// reactionTriggered reports whether any of rec's triggers is currently
// present. It is checked live, level by level, rather than against a
// snapshot taken before any reaction ran: a reaction's trigger can
// become present mid-tag, when an earlier-level reaction writes a port
// it is connected to: a port is present at a tag iff some reaction
// writing it fired at that tag.
func reactionTriggered(rec *reactor.Reaction) bool {
	for _, t := range rec.Triggers() {
		if t.IsPresent() {
			return true
		}
	}
	return false
}

// fireByLevel fires every currently-triggered reaction of every active
// reactor, level by level per the precedence graph's topological
// order, tie-broken deterministically within a level. Checking
// reactionTriggered live at fire time, rather than from a pre-tag
// snapshot, is what makes a same-tag producer->consumer chain work: a
// producer's write marks its downstream port present before the
// consumer's level is reached. The reactor set and level assignment
// are themselves snapshotted once at the top of this pass, so a
// reaction a mutation adds mid-pass is wired into the graph for every
// subsequent tag but does not fire until then.
func (a *App) fireByLevel(ctx context.Context) error {
	byName := make(map[string]*reactor.Reaction)
	for _, r := range allReactors(a.root) {
		for _, rec := range r.Reactions() {
			byName[rec.FQName()] = rec
		}
	}

	levels, err := a.program.Graph().TopologicalLevels()
	if err != nil {
		return err
	}

	for _, level := range levels {
		for _, name := range level {
			rec, ok := byName[name]
			if !ok || rec.Owner().State() != reactor.StateActive || !reactionTriggered(rec) {
				continue
			}
			if err := a.fireOne(ctx, rec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *App) fireOne(ctx context.Context, rec *reactor.Reaction) error {
	rctx := &reactor.Context{Tag: a.currentTag, Key: rec.Owner().Key(), Sink: a.queue}

	var endSpan func(error)
	if a.tracer != nil {
		_, endSpan = a.tracer.ReactionSpan(ctx, rec.FQName())
	}

	var err error
	if rec.IsMutation() {
		err = connection.RunMutation(a.program, rec.Owner(), func(h *connection.Handle) error {
			rctx.Mutation = h
			return a.runWithDeadline(ctx, rec, rctx)
		})
		if a.metrics != nil {
			outcome := "mutation_commits_total"
			if err != nil {
				outcome = "mutation_rollbacks_total"
			}
			a.metrics.RecordCounter(outcome, 1, map[string]string{"unit": rec.FQName()})
		}
	} else {
		err = a.runWithDeadline(ctx, rec, rctx)
	}

	if endSpan != nil {
		endSpan(err)
	}
	return err
}

func (a *App) clearPresence() {
	for _, r := range allReactors(a.root) {
		for _, t := range r.AllTriggers() {
			t.Clear()
		}
	}
}

// shutdown fires every reactor's Shutdown trigger at the current tag's
// next microstep, runs whatever reactions that enables, transitions
// every reactor to terminated, and invokes the App's success/fail
// callback.
func (a *App) shutdown(cause error) error {
	next, err := a.currentTag.AdvanceMicrostep()
	if err != nil {
		next = a.currentTag
	}
	a.currentTag = next

	for _, r := range allReactors(a.root) {
		if r.State() != reactor.StateActive {
			continue
		}
		r.Shutdown().Deliver(struct{}{})()
	}

	fireErr := a.fireByLevel(context.Background())
	a.clearPresence()

	for _, r := range allReactors(a.root) {
		r.SetState(reactor.StateTerminated)
	}

	if cause == nil {
		cause = fireErr
	}
	if cause != nil {
		a.fail(cause)
		return cause
	}
	if a.onSuccess != nil {
		a.onSuccess()
	}
	return nil
}

func (a *App) fail(err error) {
	for _, r := range allReactors(a.root) {
		r.SetState(reactor.StateTerminated)
	}
	if a.onFail != nil {
		a.onFail(err)
	}
}
