package rt

// ---------------------------------------------------------------------------
// Call protocol
// ---------------------------------------------------------------------------

// Call invokes fn with positional and keyword arguments and returns the
// result as a fresh counted reference. Passed arguments are borrowed;
// the callee acquires its own references to anything it keeps.
//
// Functions run their native body. Calling a type object constructs an
// instance of it, with keyword arguments stored as initial attributes.
func (r *Runtime) Call(fn Value, args []Value, kwargs map[string]Value) (Value, error) {
	obj := r.get(fn)
	if obj == nil {
		return Invalid, Fail(ErrType, "value is not callable")
	}
	switch obj.kind {
	case KindFunc:
		result, err := obj.fn(r, args, kwargs)
		if err != nil {
			return Invalid, err
		}
		return result, nil
	case KindType:
		inst, err := r.NewInstance(fn)
		if err != nil {
			return Invalid, err
		}
		for name, v := range kwargs {
			if err := r.SetAttr(inst, name, v); err != nil {
				r.DecRef(inst)
				return Invalid, err
			}
		}
		if len(args) > 0 {
			r.DecRef(inst)
			return Invalid, Failf(ErrCall, "%s() takes no positional arguments", obj.typ.name)
		}
		return inst, nil
	}
	return Invalid, Failf(ErrType, "value of type '%s' is not callable", obj.kind)
}
