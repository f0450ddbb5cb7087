package reactor

import "github.com/ahrav/reactor-core/internal/domain"

// key is the unforgeable capability token granting access to a
// reactor's writable ports and scheduling calls: a newtype token held
// by a reactor and compared by identity. Because its only field is an
// unexported pointer, no code outside this package can construct a key
// that compares equal to a reactor's own, short of being handed the
// value directly.
type key struct {
	owner *Reactor
}

// Key is the exported view of a capability token, returned to a
// reactor's own constructor body so it can pass itself to mutation
// closures and writable/schedule calls. It wraps the unexported key so
// that external packages can hold and forward the value without being
// able to fabricate one from scratch.
type Key struct {
	k key
}

func newKeyFor(r *Reactor) Key {
	return Key{k: key{owner: r}}
}

// checkKey reports whether k was minted for owner.
func checkKey(owner *Reactor, k Key) error {
	if k.k.owner != owner {
		return domain.NewInvalidKeyError(owner.FQName())
	}
	return nil
}
