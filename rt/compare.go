package rt

// ---------------------------------------------------------------------------
// Rich comparison
// ---------------------------------------------------------------------------

// CompareOp is the ordering token passed to the comparison primitive.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Compare answers a single rich comparison between a and b. Equality is
// total; ordering fails with a value error when the operands have no
// common order. A type's custom compare hook, when installed, takes
// precedence and its answers are reported unchanged.
func (r *Runtime) Compare(a, b Value, op CompareOp) (bool, error) {
	if a.IsInvalid() || b.IsInvalid() {
		return false, Fail(ErrContract, "comparison with no value")
	}

	if hook := r.compareHook(a); hook != nil {
		return hook(r, a, b, op)
	}

	switch op {
	case OpEq:
		return r.valuesEqual(a, b)
	case OpNe:
		eq, err := r.valuesEqual(a, b)
		return !eq, err
	}

	lt, ok, err := r.valuesLess(a, b)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, Failf(ErrValue, "'%s' not supported between these values", op)
	}
	if op == OpLt {
		return lt, nil
	}
	gt, _, err := r.valuesLess(b, a)
	if err != nil {
		return false, err
	}
	if op == OpGt {
		return gt, nil
	}
	// Le and Ge are the strict comparison or equality, never a negation:
	// NaN operands answer false to all four orderings.
	if op == OpLe && lt || op == OpGe && gt {
		return true, nil
	}
	return r.valuesEqual(a, b)
}

// compareHook returns the custom ordering installed on a's type, if any.
func (r *Runtime) compareHook(a Value) func(*Runtime, Value, Value, CompareOp) (bool, error) {
	obj := r.get(a)
	if obj == nil || obj.kind != KindObject {
		return nil
	}
	class := r.get(obj.class)
	if class == nil || class.typ == nil {
		return nil
	}
	return class.typ.compare
}

// numeric returns a's value as a float64 when a is int, float, or bool.
func (r *Runtime) numeric(a Value) (float64, bool) {
	switch {
	case a.IsSmallInt():
		return float64(a.SmallInt()), true
	case a == True:
		return 1, true
	case a == False:
		return 0, true
	case a.IsFloat() && !a.IsSpecial():
		return a.Float64(), true
	}
	if obj := r.get(a); obj != nil && obj.kind == KindBigInt {
		return float64(obj.i64), true
	}
	return 0, false
}

func (r *Runtime) valuesEqual(a, b Value) (bool, error) {
	if a == b {
		// Covers identical immediates and identical heap references.
		// NaN floats still compare unequal below.
		if a.IsFloat() && !a.IsSpecial() {
			return a.Float64() == b.Float64(), nil
		}
		return true, nil
	}

	if fa, ok := r.numeric(a); ok {
		if fb, ok := r.numeric(b); ok {
			return fa == fb, nil
		}
		return false, nil
	}

	oa, ob := r.get(a), r.get(b)
	if oa == nil || ob == nil || oa.kind != ob.kind {
		// Complex compares equal to a real number with zero imaginary part.
		if oa != nil && oa.kind == KindComplex {
			if fb, ok := r.numeric(b); ok {
				return oa.cpx == complex(fb, 0), nil
			}
		}
		if ob != nil && ob.kind == KindComplex {
			if fa, ok := r.numeric(a); ok {
				return ob.cpx == complex(fa, 0), nil
			}
		}
		return false, nil
	}

	switch oa.kind {
	case KindBigInt:
		return oa.i64 == ob.i64, nil
	case KindComplex:
		return oa.cpx == ob.cpx, nil
	case KindString:
		return oa.str == ob.str, nil
	case KindList, KindTuple:
		if len(oa.elems) != len(ob.elems) {
			return false, nil
		}
		for i := range oa.elems {
			eq, err := r.valuesEqual(oa.elems[i], ob.elems[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case KindDict:
		if oa.dict.size != ob.dict.size {
			return false, nil
		}
		for _, bucket := range oa.dict.buckets {
			for _, ent := range bucket {
				bv, err := r.GetItem(b, ent.key)
				if err != nil {
					if IsKind(err, ErrKey) {
						return false, nil
					}
					return false, err
				}
				eq, err := r.valuesEqual(ent.val, bv)
				r.DecRef(bv)
				if err != nil || !eq {
					return false, err
				}
			}
		}
		return true, nil
	}
	// Functions, types, instances: identity only, already handled above.
	return false, nil
}

// valuesLess answers a < b. The middle result reports whether the two
// values have an order at all.
func (r *Runtime) valuesLess(a, b Value) (bool, bool, error) {
	if fa, ok := r.numeric(a); ok {
		if fb, ok := r.numeric(b); ok {
			return fa < fb, true, nil
		}
		return false, false, nil
	}

	oa, ob := r.get(a), r.get(b)
	if oa == nil || ob == nil || oa.kind != ob.kind {
		return false, false, nil
	}
	switch oa.kind {
	case KindString:
		return oa.str < ob.str, true, nil
	case KindList, KindTuple:
		n := len(oa.elems)
		if len(ob.elems) < n {
			n = len(ob.elems)
		}
		for i := 0; i < n; i++ {
			eq, err := r.valuesEqual(oa.elems[i], ob.elems[i])
			if err != nil {
				return false, false, err
			}
			if !eq {
				return r.valuesLess(oa.elems[i], ob.elems[i])
			}
		}
		return len(oa.elems) < len(ob.elems), true, nil
	}
	return false, false, nil
}
