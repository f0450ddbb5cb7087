package config

import (
	"fmt"
	"sync"

	"github.com/ahrav/reactor-core/internal/reactor"
)

// BankMemberFactory constructs one reactor bank member under parent,
// named id, at the given bank index, decoding params however the
// factory's reactor type requires. Factories are responsible for
// calling reactor.NewReactor(parent, id) themselves so they can attach
// whatever ports, actions, timers, and reactions their type needs.
type BankMemberFactory func(parent *reactor.Reactor, id string, index int, params map[string]any) (*reactor.Reactor, error)

// Registry maps a BankConfig's Type string to the factory that builds
// its members.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]BankMemberFactory
}

// NewRegistry constructs an empty registry. Call Register for each
// reactor type a declarative program may reference before passing the
// registry to a Loader.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]BankMemberFactory)}
}

// Register adds factory under name. It panics if name is already
// registered: a duplicate registration is a programming error that
// should fail fast during initialization, not silently overwrite.
func (r *Registry) Register(name string, factory BankMemberFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("config: bank type %q already registered", name))
	}
	r.factories[name] = factory
}

// Lookup returns the factory registered for name, and false if none was.
func (r *Registry) Lookup(name string) (BankMemberFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// SupportedTypes returns every registered bank type name.
func (r *Registry) SupportedTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for name := range r.factories {
		types = append(types, name)
	}
	return types
}
