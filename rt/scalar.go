package rt

import (
	"math"
)

// ---------------------------------------------------------------------------
// Scalar allocation: native inputs to dynamic values
// ---------------------------------------------------------------------------

// NewInt creates an integer value. Integers in the 48-bit immediate range
// are unboxed; larger magnitudes allocate a counted heap object.
func (r *Runtime) NewInt(n int64) Value {
	if v, ok := TryFromSmallInt(n); ok {
		return v
	}
	return r.alloc(&heapObject{kind: KindBigInt, i64: n})
}

// NewUint creates an integer value from an unsigned input. Values above
// the signed range are boxed so no sign is lost.
func (r *Runtime) NewUint(n uint64) Value {
	if n <= uint64(MaxSmallInt) {
		return FromSmallInt(int64(n))
	}
	if n > math.MaxInt64 {
		// Widest representable payload is int64; saturating here would
		// corrupt round-trips, so reject.
		return Invalid
	}
	return r.alloc(&heapObject{kind: KindBigInt, i64: int64(n)})
}

// NewBool creates a boolean value.
func (r *Runtime) NewBool(b bool) Value {
	return FromBool(b)
}

// NewFloat creates a floating-point value.
func (r *Runtime) NewFloat(f float64) Value {
	return FromFloat64(f)
}

// NewComplex creates a complex value from (real, imaginary) components.
func (r *Runtime) NewComplex(c complex128) Value {
	return r.alloc(&heapObject{kind: KindComplex, cpx: c})
}

// NewString creates a text value.
func (r *Runtime) NewString(s string) Value {
	return r.alloc(&heapObject{kind: KindString, str: s})
}

// ---------------------------------------------------------------------------
// Scalar extraction: dynamic values to native outputs
// ---------------------------------------------------------------------------

// AsInt extracts an integer. Booleans extract as 0/1; floats do not
// convert implicitly.
func (r *Runtime) AsInt(v Value) (int64, error) {
	switch {
	case v.IsSmallInt():
		return v.SmallInt(), nil
	case v == True:
		return 1, nil
	case v == False:
		return 0, nil
	}
	if obj := r.get(v); obj != nil && obj.kind == KindBigInt {
		return obj.i64, nil
	}
	return 0, Fail(ErrType, "value is not an integer")
}

// AsUint extracts a non-negative integer.
func (r *Runtime) AsUint(v Value) (uint64, error) {
	n, err := r.AsInt(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, Fail(ErrValue, "cannot extract negative value as unsigned")
	}
	return uint64(n), nil
}

// AsFloat extracts a floating-point number. Integers and booleans widen.
func (r *Runtime) AsFloat(v Value) (float64, error) {
	if v.IsFloat() {
		return v.Float64(), nil
	}
	if n, err := r.AsInt(v); err == nil {
		return float64(n), nil
	}
	return 0, Fail(ErrType, "value is not a number")
}

// AsComplex extracts a complex number. Real numbers widen with a zero
// imaginary component.
func (r *Runtime) AsComplex(v Value) (complex128, error) {
	if obj := r.get(v); obj != nil && obj.kind == KindComplex {
		return obj.cpx, nil
	}
	if f, err := r.AsFloat(v); err == nil {
		return complex(f, 0), nil
	}
	return 0, Fail(ErrType, "value is not a complex number")
}

// AsString extracts text. Only text values extract; there is no implicit
// stringification.
func (r *Runtime) AsString(v Value) (string, error) {
	if obj := r.get(v); obj != nil && obj.kind == KindString {
		return obj.str, nil
	}
	return "", Fail(ErrType, "value is not a string")
}

// AsBool extracts a boolean. Only True and False extract; use IsTrue for
// truthiness.
func (r *Runtime) AsBool(v Value) (bool, error) {
	switch v {
	case True:
		return true, nil
	case False:
		return false, nil
	}
	return false, Fail(ErrType, "value is not a boolean")
}

// ---------------------------------------------------------------------------
// Kind predicates
// ---------------------------------------------------------------------------

// KindOf reports the payload kind of v. Immediates map onto the matching
// heap kinds; nil, booleans, and invalid report KindInvalid.
func (r *Runtime) KindOf(v Value) Kind {
	switch {
	case v.IsSmallInt():
		return KindBigInt
	case v.IsFloat():
		return KindFloat
	case v.IsHeap():
		if obj := r.get(v); obj != nil {
			return obj.kind
		}
	}
	return KindInvalid
}

// IsInt reports whether v is an integer (immediate or boxed).
func (r *Runtime) IsInt(v Value) bool {
	if v.IsSmallInt() {
		return true
	}
	obj := r.get(v)
	return obj != nil && obj.kind == KindBigInt
}

// IsFloatValue reports whether v is a floating-point number.
func (r *Runtime) IsFloatValue(v Value) bool {
	return !v.IsSpecial() && v.IsFloat()
}

// IsComplex reports whether v is a complex number.
func (r *Runtime) IsComplex(v Value) bool {
	obj := r.get(v)
	return obj != nil && obj.kind == KindComplex
}

// IsString reports whether v is text.
func (r *Runtime) IsString(v Value) bool {
	obj := r.get(v)
	return obj != nil && obj.kind == KindString
}

// IsList reports whether v is a list.
func (r *Runtime) IsList(v Value) bool {
	obj := r.get(v)
	return obj != nil && obj.kind == KindList
}

// IsTuple reports whether v is a tuple.
func (r *Runtime) IsTuple(v Value) bool {
	obj := r.get(v)
	return obj != nil && obj.kind == KindTuple
}

// IsDict reports whether v is a dict.
func (r *Runtime) IsDict(v Value) bool {
	obj := r.get(v)
	return obj != nil && obj.kind == KindDict
}
