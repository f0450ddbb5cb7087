package connection

import (
	"github.com/ahrav/reactor-core/internal/domain"
	"github.com/ahrav/reactor-core/internal/reactor"
	"github.com/ahrav/reactor-core/infrastructure/naming"
)

// endpoint is the slice of *reactor.Port[T]'s exported surface this
// package needs, expressed without the type parameter so Connect,
// Disconnect, and the validity checks can share one non-generic
// implementation regardless of the port's value type.
type endpoint interface {
	FQName() string
	Parent() *reactor.Reactor
	IsInput() bool
	HasSource() bool
	SourceFQName() string
}

// CanConnect reports whether connecting src to dst under connector's
// authority would currently succeed, without mutating anything.
func CanConnect[T any](p *Program, connector *reactor.Reactor, src, dst *reactor.Port[T]) bool {
	if err := validate(p, connector, src, dst); err != nil {
		return false
	}
	return tryLink(p, src, dst) == nil
}

// Connect wires src as dst's upstream source, after checking every
// validity rule: OutsideContainer, DestinationOccupied,
// CycleIntroduced, and DirectFeedThrough. On any failure the Program's
// precedence graph and the ports themselves are left exactly as they
// were — Connect either fully succeeds or has no effect.
func Connect[T any](p *Program, connector *reactor.Reactor, src, dst *reactor.Port[T]) error {
	if err := validate(p, connector, src, dst); err != nil {
		return err
	}
	if err := tryLink(p, src, dst); err != nil {
		return toConnectError(connector, src, dst, err)
	}
	src.ConnectTo(dst)
	return nil
}

// tryLink tentatively records the src->dst link and rebuilds the
// precedence graph; on failure the link is removed again and the prior
// graph is left intact (rebuild only assigns p.graph on success, so a
// failed attempt never partially mutates it).
func tryLink(p *Program, src, dst endpoint) error {
	p.links = append(p.links, link{
		src: linkedPort{fqName: src.FQName(), isInput: src.IsInput()},
		dst: linkedPort{fqName: dst.FQName(), isInput: dst.IsInput()},
	})
	if err := p.rebuild(); err != nil {
		p.links = p.links[:len(p.links)-1]
		return err
	}
	return nil
}

// Disconnect removes src as dst's upstream source. A no-op if they were
// not connected.
func Disconnect[T any](p *Program, src, dst *reactor.Port[T]) error {
	src.DisconnectFrom(dst)
	for i, l := range p.links {
		if l.src.fqName == src.FQName() && l.dst.fqName == dst.FQName() {
			p.links = append(p.links[:i], p.links[i+1:]...)
			break
		}
	}
	return p.rebuild()
}

func validate(p *Program, connector *reactor.Reactor, src, dst endpoint) error {
	if err := validateContainment(connector, src, dst); err != nil {
		return err
	}
	if dst.HasSource() {
		return domain.NewDestinationOccupiedError(dst.FQName(), dst.SourceFQName())
	}
	return nil
}

// validateContainment enforces the containment rule: an
// input may connect to an input only downward (connector's own input
// feeding a direct child's input); an output may connect to an output
// only upward (a direct child's output feeding the connector's own
// output); any other pairing requires both endpoints to be owned by
// the connector itself or one of its direct children.
func validateContainment(connector *reactor.Reactor, src, dst endpoint) error {
	srcOwner, dstOwner := src.Parent(), dst.Parent()
	if !ownedByConnectorOrChild(connector, srcOwner) || !ownedByConnectorOrChild(connector, dstOwner) {
		bad := dst.FQName()
		if !ownedByConnectorOrChild(connector, srcOwner) {
			bad = src.FQName()
		}
		return outsideContainerError(connector, src, dst, bad)
	}

	switch {
	case src.IsInput() && dst.IsInput():
		if srcOwner != connector {
			return outsideContainerError(connector, src, dst, src.FQName())
		}
	case !src.IsInput() && !dst.IsInput():
		if dstOwner != connector {
			return outsideContainerError(connector, src, dst, dst.FQName())
		}
	}
	return nil
}

// outsideContainerError builds an OutsideContainerError with a
// Suggestion populated from the connector's own visible names, the
// same way reactor.go populates TriggerOutOfScopeError's suggestion:
// badFQName is whichever endpoint actually violated containment.
func outsideContainerError(connector *reactor.Reactor, src, dst endpoint, badFQName string) *domain.OutsideContainerError {
	err := domain.NewOutsideContainerError(connector.FQName(), src.FQName(), dst.FQName())
	err.Suggestion = naming.Suggest(connector.VisibleNames(), badFQName)
	return err
}

func ownedByConnectorOrChild(connector, owner *reactor.Reactor) bool {
	return owner == connector || owner.Parent() == connector
}

// toConnectError maps a rebuild failure to the richer DirectFeedThrough
// error when the candidate connection matches the feedthrough shape
// (same-reactor input-to-output); otherwise the cycle error from
// pgraph is returned unchanged.
func toConnectError(connector *reactor.Reactor, src, dst endpoint, rebuildErr error) error {
	if isFeedThroughShape(src, dst) {
		return domain.NewDirectFeedThroughError(connector.FQName(), src.FQName(), dst.FQName())
	}
	return rebuildErr
}
