package handle

import (
	"github.com/chazu/tether/rt"
)

// ---------------------------------------------------------------------------
// KeyedRef: indexed access as an lvalue
// ---------------------------------------------------------------------------

// KeyedRef is the handle returned by indexed access. It remembers the
// parent container and the key used to reach it so that assignment can
// write back through the parent, which makes container[key] = value
// idioms possible without a separate mutator call.
//
// Reading a KeyedRef behaves exactly like the plain handle it embeds:
// a handle on whatever the fetch produced, or a null handle when the
// key did not exist yet.
//
// The parent is shared, not owned; the KeyedRef must not outlive it.
// The key is an owned copy, since the caller's key may be transient.
type KeyedRef struct {
	Handle
	parent *Handle
	key    Handle
}

// Index fetches container[key] as an assignable reference. key is
// anything the conversion layer accepts.
//
// A key-not-found failure is swallowed: the result may be used purely as
// an assignment target, and a missing key is not an error there. Every
// other fetch failure - an out-of-range sequence index in particular -
// propagates, because it is only meaningful on read and must not be
// silently absorbed.
func (h *Handle) Index(key interface{}) (*KeyedRef, error) {
	if h.IsNull() {
		return nil, errNull("indexed access")
	}
	k, err := From(h.br, key)
	if err != nil {
		return nil, err
	}

	fetched := Handle{br: h.br, ref: rt.Invalid}
	v, err := h.br.GetItem(h.ref, k.Ref())
	switch {
	case err == nil:
		fetched = Steal(h.br, v)
	case rt.IsKind(err, rt.ErrKey):
		// Missing key: leave the referent null.
	default:
		k.Close()
		return nil, err
	}

	return &KeyedRef{Handle: fetched, parent: h, key: k}, nil
}

// Set assigns through the reference: the KeyedRef's own referent is
// updated with retain semantics first, then the value is written back
// through the parent's item protocol under the stored key. A write-back
// failure propagates even though the local referent has already been
// updated.
func (k *KeyedRef) Set(val interface{}) error {
	if k.parent == nil {
		return rt.Fail(rt.ErrContract, "assignment through a detached keyed reference")
	}
	v, err := From(k.br, val)
	if err != nil {
		return err
	}
	defer v.Close()

	k.grab(v.Ref())
	return k.parent.SetItem(k.key, v)
}

// Key returns the stored key. Borrowed; valid while the KeyedRef is.
func (k *KeyedRef) Key() Handle {
	return k.key
}

// Close releases the fetched referent and the stored key copy.
func (k *KeyedRef) Close() {
	k.Handle.Close()
	k.key.Close()
	k.parent = nil
}
