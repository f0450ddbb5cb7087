package reactor

import "github.com/ahrav/reactor-core/internal/domain"

// Context is passed to a reaction's body and deadline handler. It
// carries the tag being processed, the capability key for the owning
// reactor (so the body can acquire writable ports or schedule actions),
// and the event sink actions schedule future firings through.
type Context struct {
	Tag  domain.Tag
	Key  Key
	Sink EventSink

	// Mutation carries the *connection.Handle the scheduler bound for
	// this firing, typed as any to avoid reactor importing
	// internal/connection (which itself imports reactor). Only set
	// when firing a mutation reaction; a mutation body recovers it
	// with a type assertion: ctx.Mutation.(*connection.Handle).
	Mutation any
}

// ReactionBody is a reaction's closure over its owning reactor. A
// non-nil return is a reaction-body failure, which the scheduler routes
// to the App's fail callback.
type ReactionBody func(ctx *Context) error

// Reaction bundles a trigger set, a body closure, and an optional
// deadline. Mutations are reactions registered through
// Reactor.AddMutation; plain reactions through AddReaction.
type Reaction struct {
	owner    *Reactor
	name     string
	priority int

	triggers []Trigger
	writes   []Trigger
	body     ReactionBody

	hasDeadline     bool
	deadline        domain.TimeValue
	deadlineHandler ReactionBody

	isMutation  bool
	isProcedure bool
}

// FQName returns the dotted name of this reaction, e.g. "app.r1.react".
func (r *Reaction) FQName() string { return r.owner.FQName() + "." + r.name }

// Owner returns the reactor this reaction belongs to.
func (r *Reaction) Owner() *Reactor { return r.owner }

// Priority is the reaction's registration order within its reactor.
// The scheduler's tie-break does not read it: its second term is the
// owning reactor's SiblingIndex.
func (r *Reaction) Priority() int { return r.priority }

// IsMutation reports whether this reaction carries mutation capability.
func (r *Reaction) IsMutation() bool { return r.isMutation }

// IsProcedure reports whether this is a callee-port procedure reaction.
func (r *Reaction) IsProcedure() bool { return r.isProcedure }

// Triggers returns the reaction's trigger set.
func (r *Reaction) Triggers() []Trigger { return r.triggers }

// Writes returns the ports this reaction declared it writes; the body
// acquires a WritablePort for them itself, through AsWritable with its
// Context's Key, when it runs. The precedence graph uses
// this to derive (b): "if reaction R writes a port P
// and reaction S triggers on or reads P, R precedes S."
func (r *Reaction) Writes() []Trigger { return r.writes }

// Deadline returns the configured deadline and whether one was set.
func (r *Reaction) Deadline() (domain.TimeValue, bool) { return r.deadline, r.hasDeadline }

// IsTriggered reports whether any of this reaction's triggers is
// present at the current tag: a reaction is enabled to fire at tag T
// if any one of its triggers is present at T.
func (r *Reaction) IsTriggered() bool {
	for _, t := range r.triggers {
		if t.IsPresent() {
			return true
		}
	}
	return false
}

// Fire invokes the reaction body.
func (r *Reaction) Fire(ctx *Context) error {
	return r.body(ctx)
}

// FireDeadlineHandler invokes the deadline handler in place of the
// body. Callers must first confirm HasDeadline and a non-nil handler;
// when no handler is registered, a warning is emitted and the body runs
// instead — that policy choice belongs to the scheduler, which owns
// logging and timing.
func (r *Reaction) FireDeadlineHandler(ctx *Context) error {
	return r.deadlineHandler(ctx)
}

// HasDeadlineHandler reports whether a deadline handler was registered.
func (r *Reaction) HasDeadlineHandler() bool { return r.deadlineHandler != nil }

// ReactionSpec describes a reaction to be registered with a Reactor via
// AddReaction or AddMutation. Deadline and DeadlineHandler are both
// optional; DeadlineHandler is meaningless without Deadline set.
type ReactionSpec struct {
	Name            string
	Triggers        []Trigger
	Writes          []Trigger
	Body            ReactionBody
	Deadline        domain.TimeValue
	HasDeadline     bool
	DeadlineHandler ReactionBody
	IsProcedure     bool
}

// CalleePort is the target end of a synchronous procedure call
// (ping-pong). Its single reaction trigger registers as this port;
// invocation happens directly through Invoke
// rather than through the event queue, so a caller reaction can issue
// many calls within one logical tag.
type CalleePort[Req, Resp any] struct {
	Component
	handler func(req Req) Resp
}

// NewCalleePort constructs a callee port owned by parent. Bind must be
// called before Invoke is used; registering a procedure reaction does
// not bind the port.
func NewCalleePort[Req, Resp any](parent *Reactor, name string) *CalleePort[Req, Resp] {
	c := &CalleePort[Req, Resp]{Component: Component{name: name, parent: parent}}
	parent.registerComponent(name, c)
	return c
}

func (c *CalleePort[Req, Resp]) OwnerReactor() *Reactor { return c.parent }

// IsPresent always reports false: a CalleePort never enters the event
// queue's presence model, since invocation is synchronous.
func (c *CalleePort[Req, Resp]) IsPresent() bool { return false }

// Clear is a no-op: a CalleePort carries no tag-scoped presence state.
func (c *CalleePort[Req, Resp]) Clear() {}

// Bind registers the procedure body. Invoke panics if called before
// Bind, since no handler is set.
func (c *CalleePort[Req, Resp]) Bind(handler func(req Req) Resp) {
	c.handler = handler
}

// Invoke synchronously runs the bound procedure body and returns its
// result.
func (c *CalleePort[Req, Resp]) Invoke(req Req) Resp {
	return c.handler(req)
}

// CallerPort is the invoking end of a procedure call pairing, bound to
// a single CalleePort at construction.
type CallerPort[Req, Resp any] struct {
	target *CalleePort[Req, Resp]
}

// NewCallerPort constructs a caller port bound to target.
func NewCallerPort[Req, Resp any](target *CalleePort[Req, Resp]) *CallerPort[Req, Resp] {
	return &CallerPort[Req, Resp]{target: target}
}

// Invoke calls the bound callee synchronously and returns its result.
func (c *CallerPort[Req, Resp]) Invoke(req Req) Resp {
	return c.target.Invoke(req)
}
