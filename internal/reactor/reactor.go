package reactor

import (
	"sync"

	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/infrastructure/naming"
)

// Reactor owns a mapping of named components, an ordered reaction list
// (mutations first, then plain reactions, each in registration order),
// a lifecycle state, and its own capability key.
type Reactor struct {
	Component

	mu         sync.Mutex
	components map[string]any
	children   []*Reactor

	allTriggers []Trigger

	mutations       []*Reaction
	plain           []*Reaction
	reactionCounter int

	siblingIndex int
	state        LifecycleState

	startup  *Action[struct{}]
	shutdown *Action[struct{}]
}

// NewApp constructs the unique root reactor. Its parent is nil by
// construction — the one reactor in the tree allowed to have none.
func NewApp() *Reactor {
	r := &Reactor{
		Component:  Component{name: "app"},
		components: make(map[string]any),
		state:      StateConstructing,
	}
	r.startup = newStartupAction(r)
	r.shutdown = newShutdownAction(r)
	return r
}

// NewReactor constructs a reactor owned by parent. parent must be
// non-nil: constructing a reactor with a null parent anywhere below the
// root fails with OrphanReactor.
func NewReactor(parent *Reactor, name string) (*Reactor, error) {
	if parent == nil {
		return nil, domain.NewOrphanReactorError(name)
	}
	parent.mu.Lock()
	defer parent.mu.Unlock()

	r := &Reactor{
		Component:    Component{name: name, parent: parent},
		components:   make(map[string]any),
		state:        StateConstructing,
		siblingIndex: len(parent.children),
	}
	parent.children = append(parent.children, r)
	r.startup = newStartupAction(r)
	r.shutdown = newShutdownAction(r)
	return r, nil
}

// Key returns this reactor's capability token. Only the reactor's own
// constructor code should retain it; it gates writable ports, action
// scheduling, and mutation privileges.
func (r *Reactor) Key() Key { return newKeyFor(r) }

// State returns the reactor's current lifecycle state.
func (r *Reactor) State() LifecycleState { return r.state }

// SetState transitions the reactor's lifecycle state. Only the
// scheduler drives this transition.
func (r *Reactor) SetState(s LifecycleState) { r.state = s }

// Children returns the reactor's direct children, in registration
// order.
func (r *Reactor) Children() []*Reactor { return r.children }

// SiblingIndex is this reactor's registration position among its
// parent's children — the second term of the scheduler's deterministic
// tie-break, zero for the App root.
func (r *Reactor) SiblingIndex() int { return r.siblingIndex }

// Startup returns the zero-delay logical action the scheduler fires
// for this reactor at program start.
func (r *Reactor) Startup() *Action[struct{}] { return r.startup }

// Shutdown returns the zero-delay logical action the scheduler fires
// for this reactor at program termination.
func (r *Reactor) Shutdown() *Action[struct{}] { return r.shutdown }

// VisibleNames lists this reactor's own and direct children's named
// components, used to build connection/trigger-scope error
// suggestions.
func (r *Reactor) VisibleNames() []string { return r.visibleNames() }

// AllTriggers returns every trigger (port, action, timer, callee port)
// owned directly by this reactor — used by the scheduler to clear
// presence at tag advance and to build the firing set.
func (r *Reactor) AllTriggers() []Trigger { return r.allTriggers }

// Components returns a shallow copy of the reactor's named-component
// map, for diagnostics (internal/diagnostics' hierarchy listing).
func (r *Reactor) Components() map[string]any {
	out := make(map[string]any, len(r.components))
	for k, v := range r.components {
		out[k] = v
	}
	return out
}

// Reactions returns the reactor's full reaction list: mutations first,
// then plain reactions, each in registration order.
func (r *Reactor) Reactions() []*Reaction {
	out := make([]*Reaction, 0, len(r.mutations)+len(r.plain))
	out = append(out, r.mutations...)
	out = append(out, r.plain...)
	return out
}

func (r *Reactor) registerComponent(name string, c any) {
	r.components[name] = c
	if t, ok := c.(Trigger); ok {
		r.allTriggers = append(r.allTriggers, t)
	}
}

func (r *Reactor) registerTrigger(t Trigger) {
	r.allTriggers = append(r.allTriggers, t)
}

// AddReaction registers a plain reaction, validating its trigger scope
// against what is visible from r.
func (r *Reactor) AddReaction(spec ReactionSpec) (*Reaction, error) {
	return r.addReaction(spec, false)
}

// AddMutation registers a mutation: a reaction carrying the capability
// to invoke connect/disconnect/add_sibling during its body. Mutations
// always precede plain reactions in firing order within the same
// reactor.
func (r *Reactor) AddMutation(spec ReactionSpec) (*Reaction, error) {
	return r.addReaction(spec, true)
}

func (r *Reactor) addReaction(spec ReactionSpec, isMutation bool) (*Reaction, error) {
	if spec.IsProcedure && len(spec.Triggers) != 1 {
		return nil, domain.NewMultipleTriggersOnProcedureError(r.FQName(), spec.Name, len(spec.Triggers))
	}

	for _, t := range spec.Triggers {
		owner := t.OwnerReactor()
		if !visibleTo(r, owner) {
			err := domain.NewTriggerOutOfScopeError(r.FQName(), t.FQName())
			err.Suggestion = naming.Suggest(r.VisibleNames(), t.FQName())
			return nil, err
		}
	}

	reaction := &Reaction{
		owner:           r,
		name:            spec.Name,
		priority:        r.reactionCounter,
		triggers:        spec.Triggers,
		writes:          spec.Writes,
		body:            spec.Body,
		hasDeadline:     spec.HasDeadline,
		deadline:        spec.Deadline,
		deadlineHandler: spec.DeadlineHandler,
		isMutation:      isMutation,
		isProcedure:     spec.IsProcedure,
	}
	r.reactionCounter++

	if isMutation {
		r.mutations = append(r.mutations, reaction)
	} else {
		r.plain = append(r.plain, reaction)
	}
	return reaction, nil
}

// RemoveChild detaches child from parent's children list. It exists for
// internal/connection's mutation rollback: if a mutation body fails
// after AddSibling already constructed a reactor, the reactor is
// detached again rather than left dangling in the tree.
func RemoveChild(parent, child *Reactor) {
	parent.mu.Lock()
	defer parent.mu.Unlock()
	for i, c := range parent.children {
		if c == child {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}

// AddSibling constructs a new reactor at the same containment level as
// r (i.e. owned by r's parent). It fails if r's
// parent is in a terminal state (shutting_down or terminated); siblings
// may not be added to a reactor that is itself winding down.
func AddSibling(r *Reactor, name string) (*Reactor, error) {
	parent := r.Parent()
	if parent == nil {
		return nil, domain.NewOrphanReactorError(name)
	}
	if parent.state == StateShuttingDown || parent.state == StateTerminated {
		return nil, domain.NewOrphanReactorError(name)
	}
	return NewReactor(parent, name)
}
