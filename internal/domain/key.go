package domain

// Key is a type-safe generic identifier for a piece of reactor-private
// state. The type parameter T ensures compile-time type safety when
// getting and setting values through a StateVar, eliminating the runtime
// type assertions a map[string]any would otherwise require.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and value type. Two
// keys with the same name but different T are distinct keys; this is
// intentional, since a reactor never needs to look a key up by name
// alone — a StateVar always carries its own Key.
func NewKey[T any](name string) Key[T] { return Key[T]{name: name} }

// Name returns the key's diagnostic name, used in hierarchy and mermaid
// dumps and in error messages; it plays no role in equality or lookup.
func (k Key[T]) Name() string { return k.name }

// StateVar is a reactor's private, persistent piece of state: a typed
// box that survives across tags, in contrast to a Port's value, which is
// scoped to the single tag it was set in. A StateVar is never shared
// between reactors; reaction bodies close over the StateVar fields of
// their own reactor.
//
// It deliberately has no copy-on-write semantics: reactor state must
// mutate in place across tags, which a fresh snapshot per read would
// not support.
type StateVar[T any] struct {
	key   Key[T]
	value T
}

// NewStateVar creates a StateVar bound to key, initialized to initial.
func NewStateVar[T any](key Key[T], initial T) *StateVar[T] {
	return &StateVar[T]{key: key, value: initial}
}

// Key returns the StateVar's identifying key.
func (s *StateVar[T]) Key() Key[T] { return s.key }

// Get returns the current value.
func (s *StateVar[T]) Get() T { return s.value }

// Set replaces the current value.
func (s *StateVar[T]) Set(v T) { s.value = v }
