// Package handle lets statically-typed Go code hold and manipulate
// values that live in a reference-counted dynamic runtime without
// touching reference counts at call sites.
//
// A Handle wraps one runtime reference together with an ownership
// marker: an owning handle releases its counted reference exactly once
// when closed, a borrowing handle never releases. Handles are created by
// stealing an already-counted reference, by retaining a borrowed one, or
// from native Go scalars and strings. Indexed access returns a KeyedRef,
// an lvalue proxy that writes back through its parent container when
// assigned.
//
// All protocol operations report failures as *rt.Error values; nothing
// in this package panics on a runtime failure.
package handle
