package rt

// ---------------------------------------------------------------------------
// Attribute protocol
// ---------------------------------------------------------------------------

// methodsFor returns the method table consulted for attribute lookup on v.
func (r *Runtime) methodsFor(v Value) map[string]MethodFunc {
	if obj := r.get(v); obj != nil {
		switch obj.kind {
		case KindObject:
			if class := r.get(obj.class); class != nil && class.kind == KindType {
				return class.typ.methods
			}
			return nil
		case KindType:
			return obj.typ.methods
		default:
			return r.builtinMethods(obj.kind)
		}
	}
	if v.IsSmallInt() {
		return r.builtinMethods(KindBigInt)
	}
	return nil
}

// HasAttr reports whether v has the named attribute. It never fails;
// unknown names and invalid values simply answer false.
func (r *Runtime) HasAttr(v Value, name string) bool {
	if obj := r.get(v); obj != nil && obj.attrs != nil {
		if _, ok := obj.attrs[name]; ok {
			return true
		}
	}
	methods := r.methodsFor(v)
	_, ok := methods[name]
	return ok
}

// GetAttr fetches the named attribute and returns it as a fresh counted
// reference. Methods come back bound to v.
func (r *Runtime) GetAttr(v Value, name string) (Value, error) {
	if v.IsInvalid() {
		return Invalid, Fail(ErrContract, "attribute access on no value")
	}
	if obj := r.get(v); obj != nil && obj.attrs != nil {
		if stored, ok := obj.attrs[name]; ok {
			r.IncRef(stored)
			return stored, nil
		}
	}
	if m, ok := r.methodsFor(v)[name]; ok {
		return r.bindMethod(v, name, m), nil
	}
	return Invalid, Failf(ErrAttribute, "no attribute %q", name)
}

// bindMethod wraps a method into a callable that carries its receiver.
// The callable pins the receiver with its own counted reference.
func (r *Runtime) bindMethod(recv Value, name string, m MethodFunc) Value {
	r.IncRef(recv)
	fn := func(rt *Runtime, args []Value, kwargs map[string]Value) (Value, error) {
		return m(rt, recv, args, kwargs)
	}
	return r.alloc(&heapObject{kind: KindFunc, fn: fn, fnName: name, bound: recv})
}

// SetAttr stores an attribute, acquiring a reference to val. Only
// instances and types carry attribute slots; everything else is
// read-only.
func (r *Runtime) SetAttr(v Value, name string, val Value) error {
	obj := r.get(v)
	if obj == nil || obj.attrs == nil {
		return Failf(ErrAttribute, "cannot set attribute %q: object is read-only", name)
	}
	// Acquire before release so storing an attribute over itself is safe.
	r.IncRef(val)
	if old, ok := obj.attrs[name]; ok {
		r.DecRef(old)
	}
	obj.attrs[name] = val
	return nil
}

// DelAttr removes an attribute, releasing the stored reference.
func (r *Runtime) DelAttr(v Value, name string) error {
	obj := r.get(v)
	if obj == nil || obj.attrs == nil {
		return Failf(ErrAttribute, "cannot delete attribute %q: object is read-only", name)
	}
	old, ok := obj.attrs[name]
	if !ok {
		return Failf(ErrAttribute, "no attribute %q", name)
	}
	delete(obj.attrs, name)
	r.DecRef(old)
	return nil
}
