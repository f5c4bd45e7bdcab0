package rt

import (
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Textual forms
// ---------------------------------------------------------------------------

// Repr returns the canonical textual form of v as a fresh counted text
// value.
func (r *Runtime) Repr(v Value) (Value, error) {
	s, err := r.reprString(v, true)
	if err != nil {
		return Invalid, err
	}
	return r.NewString(s), nil
}

// Str returns the display form of v as a fresh counted text value. It
// differs from Repr only for text, which is rendered unquoted.
func (r *Runtime) Str(v Value) (Value, error) {
	s, err := r.reprString(v, false)
	if err != nil {
		return Invalid, err
	}
	return r.NewString(s), nil
}

func (r *Runtime) reprString(v Value, quote bool) (string, error) {
	switch {
	case v.IsInvalid():
		return "", Fail(ErrContract, "repr of no value")
	case v.IsNil():
		return "None", nil
	case v == True:
		return "True", nil
	case v == False:
		return "False", nil
	case v.IsSmallInt():
		return strconv.FormatInt(v.SmallInt(), 10), nil
	case v.IsFloat():
		return formatFloat(v.Float64()), nil
	}

	obj := r.get(v)
	if obj == nil {
		return "", Fail(ErrContract, "repr of dead reference")
	}
	switch obj.kind {
	case KindBigInt:
		return strconv.FormatInt(obj.i64, 10), nil
	case KindComplex:
		return formatComplex(obj.cpx), nil
	case KindString:
		if quote {
			return strconv.Quote(obj.str), nil
		}
		return obj.str, nil
	case KindList, KindTuple:
		open, close := "[", "]"
		if obj.kind == KindTuple {
			open, close = "(", ")"
		}
		var b strings.Builder
		b.WriteString(open)
		for i, e := range obj.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			es, err := r.reprString(e, true)
			if err != nil {
				return "", err
			}
			b.WriteString(es)
		}
		if obj.kind == KindTuple && len(obj.elems) == 1 {
			b.WriteString(",")
		}
		b.WriteString(close)
		return b.String(), nil
	case KindDict:
		var b strings.Builder
		b.WriteString("{")
		first := true
		for _, bucket := range obj.dict.buckets {
			for _, ent := range bucket {
				if !first {
					b.WriteString(", ")
				}
				first = false
				ks, err := r.reprString(ent.key, true)
				if err != nil {
					return "", err
				}
				vs, err := r.reprString(ent.val, true)
				if err != nil {
					return "", err
				}
				b.WriteString(ks)
				b.WriteString(": ")
				b.WriteString(vs)
			}
		}
		b.WriteString("}")
		return b.String(), nil
	case KindFunc:
		return "<function " + obj.fnName + ">", nil
	case KindType:
		return "<class '" + obj.typ.name + "'>", nil
	case KindObject:
		name := r.TypeName(obj.class)
		return "<" + name + " object>", nil
	}
	return "", Fail(ErrContract, "repr of unknown kind")
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep the canonical form unambiguous against integer text.
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}

func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	ims := strconv.FormatFloat(im, 'g', -1, 64)
	if re == 0 {
		return ims + "j"
	}
	res := strconv.FormatFloat(re, 'g', -1, 64)
	if im >= 0 || math.IsNaN(im) {
		return "(" + res + "+" + ims + "j)"
	}
	return "(" + res + ims + "j)"
}

// ---------------------------------------------------------------------------
// Hashing
// ---------------------------------------------------------------------------

// Hash computes the hash of v. Numbers that compare equal hash equal
// across int and float. Lists and dicts are unhashable.
func (r *Runtime) Hash(v Value) (uint64, error) {
	switch {
	case v.IsInvalid():
		return 0, Fail(ErrContract, "hash of no value")
	case v.IsNil():
		return 0x7be9_c1a5, nil
	case v == True:
		return 1, nil
	case v == False:
		return 0, nil
	case v.IsSmallInt():
		return uint64(v.SmallInt()), nil
	case v.IsFloat():
		f := v.Float64()
		if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<62 {
			return uint64(int64(f)), nil
		}
		return uint64(v), nil
	}

	obj := r.get(v)
	if obj == nil {
		return 0, Fail(ErrContract, "hash of dead reference")
	}
	switch obj.kind {
	case KindBigInt:
		return uint64(obj.i64), nil
	case KindComplex:
		return math.Float64bits(real(obj.cpx)) ^ math.Float64bits(imag(obj.cpx))*0x9e3779b9, nil
	case KindString:
		h := fnv.New64a()
		h.Write([]byte(obj.str))
		return h.Sum64(), nil
	case KindTuple:
		var acc uint64 = 0x345678
		for _, e := range obj.elems {
			eh, err := r.Hash(e)
			if err != nil {
				return 0, err
			}
			acc = acc*1000003 ^ eh
		}
		return acc, nil
	case KindFunc, KindType, KindObject:
		// Identity hash.
		return uint64(v.HeapID()), nil
	}
	return 0, Failf(ErrValue, "unhashable type: '%s'", obj.kind)
}

// ---------------------------------------------------------------------------
// Size and truthiness
// ---------------------------------------------------------------------------

// Size returns the length of a sized value: characters of text, elements
// of a list or tuple, entries of a dict.
func (r *Runtime) Size(v Value) (int, error) {
	obj := r.get(v)
	if obj == nil {
		return 0, Fail(ErrType, "value has no size")
	}
	switch obj.kind {
	case KindString:
		return utf8.RuneCountInString(obj.str), nil
	case KindList, KindTuple:
		return len(obj.elems), nil
	case KindDict:
		return obj.dict.size, nil
	}
	return 0, Failf(ErrType, "value of type '%s' has no size", obj.kind)
}

// IsTrue reports the truthiness of v. False, nil, numeric zero, and
// empty sized values are falsy; everything else is truthy. Invalid is
// falsy.
func (r *Runtime) IsTrue(v Value) bool {
	switch {
	case v.IsInvalid(), v.IsNil(), v == False:
		return false
	case v == True:
		return true
	case v.IsSmallInt():
		return v.SmallInt() != 0
	case v.IsFloat():
		return v.Float64() != 0
	}
	obj := r.get(v)
	if obj == nil {
		return false
	}
	switch obj.kind {
	case KindBigInt:
		return obj.i64 != 0
	case KindComplex:
		return obj.cpx != 0
	case KindString:
		return obj.str != ""
	case KindList, KindTuple:
		return len(obj.elems) > 0
	case KindDict:
		return obj.dict.size > 0
	}
	return true
}

// IsCallable reports whether v can be called.
func (r *Runtime) IsCallable(v Value) bool {
	obj := r.get(v)
	return obj != nil && (obj.kind == KindFunc || obj.kind == KindType)
}
