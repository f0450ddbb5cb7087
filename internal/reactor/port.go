package reactor

import "strconv"

// Port is a typed, tag-scoped dataflow endpoint. A Port is exactly one
// of {input, output}; IsInput reports which. Ports
// referenced as upstream/downstream are wired by the connection engine
// (internal/connection) through ConnectTo; values reach a port only
// through the unexported receive, which WritablePort.Set and the
// fan-out to downstream sinks call.
type Port[T any] struct {
	Component
	isInput bool
	present bool
	value   T

	source *Port[T]   // single upstream connection, nil if none (enforces DestinationOccupied)
	sinks  []*Port[T]  // downstream connections fed on receive
}

// NewPort constructs a port owned by parent. isInput selects InPort vs
// OutPort; the owning reactor registers it as a named, visible
// component.
func NewPort[T any](parent *Reactor, name string, isInput bool) *Port[T] {
	p := &Port[T]{Component: Component{name: name, parent: parent}, isInput: isInput}
	parent.registerComponent(name, p)
	return p
}

// IsInput reports whether this is an InPort (vs an OutPort).
func (p *Port[T]) IsInput() bool { return p.isInput }

// Get returns the value set at the current tag and whether it is
// present; the zero value of T is returned when absent.
func (p *Port[T]) Get() (T, bool) {
	return p.value, p.present
}

// IsPresent reports whether the port was set during the current tag.
func (p *Port[T]) IsPresent() bool { return p.present }

func (p *Port[T]) OwnerReactor() *Reactor { return p.parent }

// AsWritable returns a key-gated facade granting Set to the holder of
// k. It fails with InvalidKey unless k was minted
// for this port's owning reactor.
func (p *Port[T]) AsWritable(k Key) (*WritablePort[T], error) {
	if err := checkKey(p.parent, k); err != nil {
		return nil, err
	}
	return &WritablePort[T]{port: p}, nil
}

// Clear resets presence at tag advance; called only by the scheduler.
func (p *Port[T]) Clear() {
	p.present = false
	var zero T
	p.value = zero
}

// receive is the internal entry point connection propagation uses to
// deliver a value to this port within the current tag. It marks the
// port present and fans the value out to every downstream sink
// transitively: the destination is marked present with the same value
// at the same tag.
func (p *Port[T]) receive(v T) {
	p.present = true
	p.value = v
	for _, sink := range p.sinks {
		sink.receive(v)
	}
}

// ConnectTo wires p as the upstream source of dst. Validity checks
// (DestinationOccupied, OutsideContainer, cycle/feedthrough) are the
// connection engine's responsibility (internal/connection); this
// method performs the mechanical wiring only.
func (p *Port[T]) ConnectTo(dst *Port[T]) {
	dst.source = p
	p.sinks = append(p.sinks, dst)
}

// DisconnectFrom removes dst as a downstream sink of p, and clears
// dst's recorded source if it points back at p. A no-op if not
// connected.
func (p *Port[T]) DisconnectFrom(dst *Port[T]) {
	for i, sink := range p.sinks {
		if sink == dst {
			p.sinks = append(p.sinks[:i], p.sinks[i+1:]...)
			break
		}
	}
	if dst.source == p {
		dst.source = nil
	}
}

// HasSource reports whether this port already has an upstream
// connection — the DestinationOccupied check in internal/connection.
func (p *Port[T]) HasSource() bool { return p.source != nil }

// Source returns the current upstream port, or nil if none — used to
// name the existing source in a DestinationOccupied error.
func (p *Port[T]) Source() *Port[T] { return p.source }

// SourceFQName returns the fully-qualified name of the current upstream
// port, or "" if unconnected. Exists so internal/connection can name the
// existing source in a DestinationOccupied error without needing this
// port's type parameter.
func (p *Port[T]) SourceFQName() string {
	if p.source == nil {
		return ""
	}
	return p.source.FQName()
}

// WritablePort is the key-gated facade granting Set access, handed to
// exactly one reaction.
type WritablePort[T any] struct {
	port *Port[T]
}

// Set marks the underlying port present with v and propagates to every
// downstream port within the same tag.
func (w *WritablePort[T]) Set(v T) {
	w.port.receive(v)
}

// Port returns the underlying read-only port, e.g. so a reaction can
// check IsPresent after writing.
func (w *WritablePort[T]) Port() *Port[T] { return w.port }

// MultiPort is a fixed-width bank of Port[T] addressable by channel
// index.
type MultiPort[T any] struct {
	Component
	isInput bool
	ports   []*Port[T]
}

// NewMultiPort constructs a width-wide bank of ports owned by parent.
func NewMultiPort[T any](parent *Reactor, name string, isInput bool, width int) *MultiPort[T] {
	m := &MultiPort[T]{Component: Component{name: name, parent: parent}, isInput: isInput}
	m.ports = make([]*Port[T], width)
	for i := range m.ports {
		m.ports[i] = &Port[T]{
			Component: Component{name: channelName(name, i), parent: parent},
			isInput:   isInput,
		}
		parent.registerTrigger(m.ports[i])
	}
	parent.registerComponent(name, m)
	return m
}

func channelName(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}

// At returns the port at channel index i.
func (m *MultiPort[T]) At(i int) *Port[T] { return m.ports[i] }

// Width reports the fixed channel count.
func (m *MultiPort[T]) Width() int { return len(m.ports) }
