package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/ahrav/reactor-core/internal/connection"
	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/ports"
	"github.com/ahrav/reactor-core/internal/reactor"
	"github.com/ahrav/reactor-core/infrastructure/telemetry"
)

// App is the embedded-DSL root: user code constructs reactors and
// static connections against App.Root(), then
// calls Start to bootstrap the precedence graph and run the scheduler
// loop to completion.
type App struct {
	root    *reactor.Reactor
	program *connection.Program
	queue   *EventQueue

	hasTimeout bool
	timeout    domain.TimeValue
	keepAlive  bool
	fast       bool

	onSuccess func()
	onFail    func(error)

	metrics ports.MetricsCollector
	tracer  *telemetry.Tracer

	stopRequested atomic.Bool
	physicalStart time.Time
	currentTag    domain.Tag
}

// NewApp constructs the App root reactor, an empty event queue, and an
// initial (empty) Program. Reactors, ports, actions, timers, reactions,
// and static connections are built against Root() and Program() before
// Start is called; Start rebuilds the Program once more to pick up
// anything registered after the last Connect/Disconnect call.
func NewApp() *App {
	root := reactor.NewApp()
	program, err := connection.NewProgram(root)
	if err != nil {
		// Unreachable: a freshly constructed, childless root can never
		// fail precedence-graph construction.
		panic(err)
	}
	return &App{root: root, program: program, queue: NewEventQueue()}
}

// Root returns the App's root reactor.
func (a *App) Root() *reactor.Reactor { return a.root }

// Queue returns the scheduler's event sink, for wiring physical-action
// producers (e.g. an I/O callback goroutine) that must enqueue events
// from outside the scheduler goroutine.
func (a *App) Queue() *EventQueue { return a.queue }

// WithTimeout bounds the run: once the scheduler would advance logical
// time past d, it treats the queue as exhausted and proceeds to
// shutdown.
func (a *App) WithTimeout(d domain.TimeValue) *App {
	a.timeout = d
	a.hasTimeout = true
	return a
}

// WithKeepAlive controls whether an empty queue before timeout keeps
// the scheduler waiting (true) or is itself treated as shutdown
// (false, the default).
func (a *App) WithKeepAlive(keepAlive bool) *App {
	a.keepAlive = keepAlive
	return a
}

// WithFast selects fast mode: logical time advances immediately to
// each popped tag instead of waiting for physical time to catch up.
func (a *App) WithFast(fast bool) *App {
	a.fast = fast
	return a
}

// OnSuccess registers a callback invoked once the run terminates
// without a reaction-body error.
func (a *App) OnSuccess(f func()) *App {
	a.onSuccess = f
	return a
}

// OnFail registers a callback invoked with the error that terminated
// the run.
func (a *App) OnFail(f func(error)) *App {
	a.onFail = f
	return a
}

// WithMetrics attaches a metrics collector the scheduler reports queue
// depth, tag throughput, and mutation outcomes to. Optional: a nil
// collector (the default) disables reporting entirely.
func (a *App) WithMetrics(collector ports.MetricsCollector) *App {
	a.metrics = collector
	return a
}

// WithTelemetry attaches a tracer the scheduler wraps tag processing
// and reaction firing with. Optional: a nil tracer (the default)
// disables span creation entirely.
func (a *App) WithTelemetry(tracer *telemetry.Tracer) *App {
	a.tracer = tracer
	return a
}

// RequestStop asks the scheduler to stop cooperatively at the end of
// the current tag.
func (a *App) RequestStop() { a.stopRequested.Store(true) }

// PhysicalNowTag maps wall-clock elapsed time since Start into a
// logical Tag at microstep zero, for physical-action producers running
// on other goroutines that need a base tag for Action.Schedule.
func (a *App) PhysicalNowTag() domain.Tag {
	elapsed := domain.TimeValue(time.Since(a.physicalStart))
	return domain.Tag{Time: elapsed, Microstep: 0}
}

// Program returns the App's precedence-graph Program, for diagnostics
// and for mutation reactions that need it indirectly through
// connection.RunMutation (the scheduler supplies it automatically when
// firing a mutation; most callers never need this directly).
func (a *App) Program() *connection.Program { return a.program }

// Start bootstraps the precedence graph, seeds Startup and the first
// timer firings, transitions the root to active, and runs the
// scheduler loop to completion.
func (a *App) Start() error {
	if err := a.program.Rebuild(); err != nil {
		return err
	}
	a.physicalStart = time.Now()

	a.root.SetState(reactor.StateActive)
	for _, r := range allReactors(a.root) {
		r.SetState(reactor.StateActive)
	}

	a.seed()
	return a.run()
}

// seed schedules the program-boundary events: a Startup event for
// every reactor at the origin tag, and every timer's first firing.
func (a *App) seed() {
	for _, r := range allReactors(a.root) {
		a.queue.PushEvent(domain.Origin, r.Startup(), r.Startup().Deliver(struct{}{}))
		for _, trig := range r.AllTriggers() {
			if timer, ok := trig.(*reactor.Timer); ok {
				tag, err := timer.FirstFireTag(domain.Origin)
				if err != nil {
					continue
				}
				if a.hasTimeout && tag.Time > a.timeout {
					continue
				}
				a.queue.PushEvent(tag, timer, timer.FireClosure())
			}
		}
	}
}

func allReactors(root *reactor.Reactor) []*reactor.Reactor {
	var out []*reactor.Reactor
	var walk func(r *reactor.Reactor)
	walk = func(r *reactor.Reactor) {
		out = append(out, r)
		for _, c := range r.Children() {
			walk(c)
		}
	}
	walk(root)
	return out
}
