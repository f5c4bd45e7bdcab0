package handle

import (
	"math"

	"github.com/chazu/tether/rt"
)

// ---------------------------------------------------------------------------
// Conversion layer: native Go values to owned handles
// ---------------------------------------------------------------------------

// From converts a native Go value into an owning handle. The convertible
// set is closed: booleans, all integer widths, floats, complex numbers,
// strings and byte slices, nil (the runtime's nil value), plus values
// already in runtime form (rt.Value is retained, Handle and KeyedRef are
// cloned). Anything else fails with a contract error.
//
// Unsigned inputs above the signed range go through the unsigned
// constructor path so no magnitude is lost.
func From(br Bridge, v interface{}) (Handle, error) {
	if br == nil {
		return Handle{}, rt.Fail(rt.ErrContract, "conversion without a bridge")
	}
	switch x := v.(type) {
	case nil:
		return None(br), nil
	case bool:
		return FromBool(br, x), nil
	case int:
		return FromInt(br, int64(x)), nil
	case int8:
		return FromInt(br, int64(x)), nil
	case int16:
		return FromInt(br, int64(x)), nil
	case int32:
		return FromInt(br, int64(x)), nil
	case int64:
		return FromInt(br, x), nil
	case uint:
		return fromUnsigned(br, uint64(x))
	case uint8:
		return FromInt(br, int64(x)), nil
	case uint16:
		return FromInt(br, int64(x)), nil
	case uint32:
		return FromInt(br, int64(x)), nil
	case uint64:
		return fromUnsigned(br, x)
	case uintptr:
		return fromUnsigned(br, uint64(x))
	case float32:
		return FromFloat(br, float64(x)), nil
	case float64:
		return FromFloat(br, x), nil
	case complex64:
		return FromComplex(br, complex128(x)), nil
	case complex128:
		return FromComplex(br, x), nil
	case string:
		return FromString(br, x), nil
	case []byte:
		return FromString(br, string(x)), nil
	case rt.Value:
		return Retain(br, x), nil
	case Handle:
		return x.Clone(), nil
	case *Handle:
		return x.Clone(), nil
	case *KeyedRef:
		return x.Handle.Clone(), nil
	}
	return Handle{}, rt.Failf(rt.ErrContract, "cannot convert Go value of type %T to a runtime value", v)
}

// fromUnsigned routes unsigned magnitudes through the unsigned
// constructor so values above the signed range keep their sign.
func fromUnsigned(br Bridge, n uint64) (Handle, error) {
	if n > math.MaxInt64 {
		return Handle{}, rt.Failf(rt.ErrValue, "unsigned value %d overflows the runtime's integer range", n)
	}
	v := br.NewUint(n)
	if v.IsInvalid() {
		return Handle{}, rt.Fail(rt.ErrAlloc, "unsigned integer allocation failed")
	}
	return Steal(br, v), nil
}
