package connection

import (
	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
)

// Handle is the capability a mutation reaction's body receives in place
// of a plain reaction's Context: it mediates every connect, disconnect,
// and add_sibling call so RunMutation can roll the whole batch back
// atomically if any step — or the body itself — fails.
type Handle struct {
	program   *Program
	connector *reactor.Reactor
	undo      []func()
	relevel   bool
}

// Connector returns the reactor this mutation is privileged to wire
// within: itself and its direct children.
func (h *Handle) Connector() *reactor.Reactor { return h.connector }

// AddSibling constructs a new reactor as a direct child of the
// mutation's connector: since Connect/MutateConnect only ever wires
// ports owned by the connector or its
// direct children, a newly instantiated reactor must land there too if
// this same mutation is going to be able to wire it up. "Sibling"
// names its relationship to the connector's other existing children,
// not to the connector itself. The new reactor is detached again if
// the mutation is rolled back.
func (h *Handle) AddSibling(name string) (*reactor.Reactor, error) {
	if h.connector.State() == reactor.StateShuttingDown || h.connector.State() == reactor.StateTerminated {
		return nil, domain.NewOrphanReactorError(name)
	}
	r, err := reactor.NewReactor(h.connector, name)
	if err != nil {
		return nil, err
	}
	h.relevel = true
	connector := h.connector
	h.undo = append(h.undo, func() { reactor.RemoveChild(connector, r) })
	return r, nil
}

// MutateConnect wires src to dst under the mutation's authority,
// recording an inverse so RunMutation can undo it on rollback.
func MutateConnect[T any](h *Handle, src, dst *reactor.Port[T]) error {
	if err := Connect(h.program, h.connector, src, dst); err != nil {
		return err
	}
	h.relevel = true
	h.undo = append(h.undo, func() { _ = Disconnect(h.program, src, dst) })
	return nil
}

// MutateDisconnect removes src as dst's source under the mutation's
// authority, recording an inverse so RunMutation can undo it on
// rollback.
func MutateDisconnect[T any](h *Handle, src, dst *reactor.Port[T]) error {
	hadSource := dst.HasSource()
	prevSource := dst.Source()
	if err := Disconnect(h.program, src, dst); err != nil {
		return err
	}
	h.relevel = true
	if hadSource && prevSource == src {
		h.undo = append(h.undo, func() { _ = Connect(h.program, h.connector, src, dst) })
	}
	return nil
}

// RunMutation executes body under a Handle scoped to connector, and
// rolls every successful step back, in reverse order, if body returns
// an error. On success it re-levels the precedence graph's topological
// levels so the scheduler's tie-break ordering reflects the new
// topology: after a successful mutation, the precedence graph's levels
// are recomputed before the next tag is processed.
func RunMutation(p *Program, connector *reactor.Reactor, body func(h *Handle) error) error {
	h := &Handle{program: p, connector: connector}
	if err := body(h); err != nil {
		for i := len(h.undo) - 1; i >= 0; i-- {
			h.undo[i]()
		}
		return err
	}
	if h.relevel {
		if _, err := p.graph.TopologicalLevels(); err != nil {
			for i := len(h.undo) - 1; i >= 0; i-- {
				h.undo[i]()
			}
			return err
		}
	}
	return nil
}
