package reactor

// Bank is a homogeneous array of reactor instances. Each member's index
// is stable across the program and observable via BankIndex on the
// member itself: a reactor's bank indices are exactly 0 … width-1, and
// stay stable across the program's lifetime.
type Bank[R any] struct {
	members []R
	widths  map[*Reactor]int
}

// BankMember pairs a constructed value of type R with the *Reactor it
// embeds or wraps, so the bank can track bank_index() against the
// reactor identity used for visibility and precedence.
type BankMember[R any] struct {
	Value R
	Node  *Reactor
}

// NewBank constructs a bank of width members, each produced by calling
// ctor(i) for i in [0, width). ctor is responsible for constructing the
// member reactor (typically via NewReactor(parent, name)) and returning
// both the domain value and its underlying *Reactor node.
func NewBank[R any](width int, ctor func(index int) (R, *Reactor)) *Bank[R] {
	b := &Bank[R]{
		members: make([]R, width),
		widths:  make(map[*Reactor]int, width),
	}
	for i := 0; i < width; i++ {
		value, node := ctor(i)
		b.members[i] = value
		b.widths[node] = i
	}
	return b
}

// At returns the bank member at index i.
func (b *Bank[R]) At(i int) R { return b.members[i] }

// Width reports the bank's fixed member count.
func (b *Bank[R]) Width() int { return len(b.members) }

// Members returns every bank member, in index order.
func (b *Bank[R]) Members() []R { return b.members }

// BankIndex returns the stable index of the reactor node within this
// bank, and false if node is not a member.
func (b *Bank[R]) BankIndex(node *Reactor) (int, bool) {
	i, ok := b.widths[node]
	return i, ok
}
