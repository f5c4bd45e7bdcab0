package handle

import (
	"github.com/chazu/tether/rt"
)

// ---------------------------------------------------------------------------
// Handle: one counted reference with an ownership marker
// ---------------------------------------------------------------------------

// Handle wraps one runtime reference. An owning handle is responsible
// for exactly one release of its referent over its whole lifetime; a
// borrowing handle observes a reference somebody else keeps alive and
// never releases it.
//
// The zero Handle is null: it wraps no value and every operation except
// IsNull and Close fails on it.
type Handle struct {
	br    Bridge
	ref   rt.Value
	owned bool
}

// Steal wraps a reference whose count the caller already paid for. The
// handle takes over responsibility for the one release. Use this for
// references handed back by bridge primitives.
func Steal(br Bridge, ref rt.Value) Handle {
	return Handle{br: br, ref: ref, owned: !ref.IsInvalid()}
}

// Retain wraps a reference someone else keeps alive, acquiring an
// independent counted reference so the handle outlives the original
// holder.
func Retain(br Bridge, ref rt.Value) Handle {
	if ref.IsInvalid() {
		return Handle{br: br, ref: rt.Invalid}
	}
	br.IncRef(ref)
	return Handle{br: br, ref: ref, owned: true}
}

// Borrow wraps a reference without touching its count. The resulting
// handle must not outlive the true owner.
func Borrow(br Bridge, ref rt.Value) Handle {
	return Handle{br: br, ref: ref}
}

// ---------------------------------------------------------------------------
// Native constructors
// ---------------------------------------------------------------------------

// FromBool creates a handle owning a fresh boolean value.
func FromBool(br Bridge, b bool) Handle {
	return Steal(br, br.NewBool(b))
}

// FromInt creates a handle owning a fresh integer value.
func FromInt(br Bridge, n int64) Handle {
	return Steal(br, br.NewInt(n))
}

// FromUint creates a handle owning a fresh integer value. Magnitudes
// above the runtime's signed integer range fail with a value error
// rather than yielding a null handle.
func FromUint(br Bridge, n uint64) (Handle, error) {
	return fromUnsigned(br, n)
}

// FromFloat creates a handle owning a fresh floating-point value.
func FromFloat(br Bridge, f float64) Handle {
	return Steal(br, br.NewFloat(f))
}

// FromComplex creates a handle owning a fresh complex value.
func FromComplex(br Bridge, c complex128) Handle {
	return Steal(br, br.NewComplex(c))
}

// FromString creates a handle owning a fresh text value.
func FromString(br Bridge, s string) Handle {
	return Steal(br, br.NewString(s))
}

// None creates a handle on the runtime's nil value.
func None(br Bridge) Handle {
	return Retain(br, rt.Nil)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// IsNull reports whether the handle wraps no value at all. This is the
// one query that never fails, and it is distinct from wrapping the
// runtime's nil value.
func (h Handle) IsNull() bool {
	return h.br == nil || h.ref.IsInvalid()
}

// Ref returns the raw reference without transferring ownership. The
// reference stays valid only as long as the handle does.
func (h Handle) Ref() rt.Value {
	return h.ref
}

// Bridge returns the bridge this handle operates through.
func (h Handle) Bridge() Bridge {
	return h.br
}

// Clone returns a new owning handle on the same referent, acquiring its
// own counted reference. Closing the original and the clone in either
// order is balanced.
func (h Handle) Clone() Handle {
	if h.IsNull() {
		return Handle{br: h.br, ref: rt.Invalid}
	}
	return Retain(h.br, h.ref)
}

// Close releases the counted reference if this handle owns one, and
// nulls the handle. Closing twice, or closing a borrowing or null
// handle, is a no-op.
func (h *Handle) Close() {
	if h.owned && !h.ref.IsInvalid() {
		h.br.DecRef(h.ref)
	}
	h.ref = rt.Invalid
	h.owned = false
}

// Disown returns the raw reference and marks the handle non-owning from
// this point on, transferring the one release to the caller. The handle
// keeps its referent readable.
func (h *Handle) Disown() rt.Value {
	h.owned = false
	return h.ref
}

// RefCount reports the live reference count of the referent. Diagnostic
// only.
func (h Handle) RefCount() int {
	if h.IsNull() {
		return 0
	}
	return h.br.RefCount(h.ref)
}

// grab points the handle at ref with retain semantics: the new referent
// is acquired before the old one is released, so regrabbing the current
// referent is safe.
func (h *Handle) grab(ref rt.Value) {
	h.br.IncRef(ref)
	if h.owned && !h.ref.IsInvalid() {
		h.br.DecRef(h.ref)
	}
	h.ref = ref
	h.owned = !ref.IsInvalid()
}

// ---------------------------------------------------------------------------
// Casts to native types
// ---------------------------------------------------------------------------

// errNull is the uniform failure for operations on a null handle.
func errNull(op string) error {
	return rt.Failf(rt.ErrContract, "%s on null handle", op)
}

// Bool extracts a native bool. Only boolean dynamic values convert; use
// IsTrue for truthiness.
func (h Handle) Bool() (bool, error) {
	if h.IsNull() {
		return false, errNull("bool cast")
	}
	b, err := h.br.AsBool(h.ref)
	if err != nil {
		return false, rt.Fail(rt.ErrType, "cannot convert value to bool")
	}
	return b, nil
}

// Int extracts a native int64.
func (h Handle) Int() (int64, error) {
	if h.IsNull() {
		return 0, errNull("int cast")
	}
	n, err := h.br.AsInt(h.ref)
	if err != nil {
		return 0, rt.Fail(rt.ErrType, "cannot convert value to int64")
	}
	return n, nil
}

// Uint extracts a native uint64. Negative values do not convert.
func (h Handle) Uint() (uint64, error) {
	if h.IsNull() {
		return 0, errNull("uint cast")
	}
	n, err := h.br.AsUint(h.ref)
	if err != nil {
		return 0, rt.Fail(rt.ErrType, "cannot convert value to uint64")
	}
	return n, nil
}

// Float64 extracts a native float64. Integers widen.
func (h Handle) Float64() (float64, error) {
	if h.IsNull() {
		return 0, errNull("float cast")
	}
	f, err := h.br.AsFloat(h.ref)
	if err != nil {
		return 0, rt.Fail(rt.ErrType, "cannot convert value to float64")
	}
	return f, nil
}

// Complex extracts a native complex128. Real numbers widen.
func (h Handle) Complex() (complex128, error) {
	if h.IsNull() {
		return 0, errNull("complex cast")
	}
	c, err := h.br.AsComplex(h.ref)
	if err != nil {
		return 0, rt.Fail(rt.ErrType, "cannot convert value to complex128")
	}
	return c, nil
}

// String extracts native text. Only text values convert; there is no
// implicit stringification.
func (h Handle) String() (string, error) {
	if h.IsNull() {
		return "", errNull("string cast")
	}
	s, err := h.br.AsString(h.ref)
	if err != nil {
		return "", rt.Fail(rt.ErrType, "cannot convert value to string")
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// IsTrue reports the truthiness of the wrapped value. A null handle is
// falsy.
func (h Handle) IsTrue() bool {
	return !h.IsNull() && h.br.IsTrue(h.ref)
}

// IsCallable reports whether the wrapped value can be called.
func (h Handle) IsCallable() bool {
	return !h.IsNull() && h.br.IsCallable(h.ref)
}

// Hash returns the wrapped value's hash. Unhashable values fail.
func (h Handle) Hash() (uint64, error) {
	if h.IsNull() {
		return 0, errNull("hash")
	}
	return h.br.Hash(h.ref)
}

// Size returns the wrapped value's length. Values with no size protocol
// fail.
func (h Handle) Size() (int, error) {
	if h.IsNull() {
		return 0, errNull("size")
	}
	return h.br.Size(h.ref)
}

// Len is a synonym for Size.
func (h Handle) Len() (int, error) {
	return h.Size()
}

// Length is a synonym for Size.
func (h Handle) Length() (int, error) {
	return h.Size()
}

// Type returns a handle on the wrapped value's type object.
func (h Handle) Type() (Handle, error) {
	if h.IsNull() {
		return Handle{}, errNull("type query")
	}
	return Steal(h.br, h.br.TypeOf(h.ref)), nil
}

// Repr returns the canonical textual form of the wrapped value.
func (h Handle) Repr() (string, error) {
	return h.text(h.br.Repr)
}

// Str returns the display form of the wrapped value.
func (h Handle) Str() (string, error) {
	return h.text(h.br.Str)
}

func (h Handle) text(prim func(rt.Value) (rt.Value, error)) (string, error) {
	if h.IsNull() {
		return "", errNull("text form")
	}
	tv, err := prim(h.ref)
	if err != nil {
		return "", err
	}
	s, err := h.br.AsString(tv)
	h.br.DecRef(tv)
	return s, err
}

// IsInt reports whether the wrapped value is an integer.
func (h Handle) IsInt() bool { return !h.IsNull() && h.br.IsInt(h.ref) }

// IsFloat reports whether the wrapped value is a floating-point number.
func (h Handle) IsFloat() bool { return !h.IsNull() && h.br.IsFloatValue(h.ref) }

// IsComplex reports whether the wrapped value is a complex number.
func (h Handle) IsComplex() bool { return !h.IsNull() && h.br.IsComplex(h.ref) }

// IsString reports whether the wrapped value is text.
func (h Handle) IsString() bool { return !h.IsNull() && h.br.IsString(h.ref) }

// IsList reports whether the wrapped value is a list.
func (h Handle) IsList() bool { return !h.IsNull() && h.br.IsList(h.ref) }

// IsTuple reports whether the wrapped value is a tuple.
func (h Handle) IsTuple() bool { return !h.IsNull() && h.br.IsTuple(h.ref) }

// IsDict reports whether the wrapped value is a dict.
func (h Handle) IsDict() bool { return !h.IsNull() && h.br.IsDict(h.ref) }

// IsNone reports whether the wrapped value is the runtime's nil value.
func (h Handle) IsNone() bool { return !h.IsNull() && h.ref.IsNil() }

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// compare converts other and answers one rich comparison against it.
func (h Handle) compare(other interface{}, op rt.CompareOp) (bool, error) {
	if h.IsNull() {
		return false, errNull("comparison")
	}
	o, err := From(h.br, other)
	if err != nil {
		return false, err
	}
	defer o.Close()
	return h.br.Compare(h.ref, o.ref, op)
}

// Eq answers h == other for any value convertible to a runtime value.
func (h Handle) Eq(other interface{}) (bool, error) { return h.compare(other, rt.OpEq) }

// Ne answers h != other.
func (h Handle) Ne(other interface{}) (bool, error) { return h.compare(other, rt.OpNe) }

// Lt answers h < other.
func (h Handle) Lt(other interface{}) (bool, error) { return h.compare(other, rt.OpLt) }

// Gt answers h > other.
func (h Handle) Gt(other interface{}) (bool, error) { return h.compare(other, rt.OpGt) }

// Le answers h <= other.
func (h Handle) Le(other interface{}) (bool, error) { return h.compare(other, rt.OpLe) }

// Ge answers h >= other.
func (h Handle) Ge(other interface{}) (bool, error) { return h.compare(other, rt.OpGe) }

// Cmp returns a tri-state ordering computed as (h > other) - (h < other).
// For a consistent ordering this yields -1, 0, or 1. A value whose type
// answers both or neither of the strict comparisons yields 0 even when
// the operands are unequal; the arithmetic is reported as the runtime
// answers it.
//
// Each strict comparison either answers a boolean or fails, and a
// failure returns as the error rather than entering the arithmetic as a
// sentinel term, so results outside -1..1 cannot occur.
func (h Handle) Cmp(other interface{}) (int, error) {
	if h.IsNull() {
		return 0, errNull("comparison")
	}
	o, err := From(h.br, other)
	if err != nil {
		return 0, err
	}
	defer o.Close()

	gt, err := h.br.Compare(h.ref, o.ref, rt.OpGt)
	if err != nil {
		return 0, err
	}
	lt, err := h.br.Compare(h.ref, o.ref, rt.OpLt)
	if err != nil {
		return 0, err
	}
	return btoi(gt) - btoi(lt), nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
