package rt

// ---------------------------------------------------------------------------
// Containers, functions, instances
// ---------------------------------------------------------------------------

// NewList creates a list holding the given elements. The list acquires
// its own reference to each element; the caller keeps its references.
func (r *Runtime) NewList(elems []Value) Value {
	owned := make([]Value, len(elems))
	copy(owned, elems)
	for _, e := range owned {
		r.IncRef(e)
	}
	return r.alloc(&heapObject{kind: KindList, elems: owned})
}

// NewTuple creates a tuple holding the given elements. Reference
// semantics match NewList.
func (r *Runtime) NewTuple(elems []Value) Value {
	owned := make([]Value, len(elems))
	copy(owned, elems)
	for _, e := range owned {
		r.IncRef(e)
	}
	return r.alloc(&heapObject{kind: KindTuple, elems: owned})
}

// NewDict creates an empty dict.
func (r *Runtime) NewDict() Value {
	return r.alloc(&heapObject{kind: KindDict, dict: newDictStore()})
}

// NewFunc creates a callable wrapping a native Go function.
func (r *Runtime) NewFunc(name string, fn NativeFunc) Value {
	return r.alloc(&heapObject{kind: KindFunc, fn: fn, fnName: name})
}

// NewInstance creates an instance of the given type object with empty
// attribute slots. The instance acquires its own reference to the type.
func (r *Runtime) NewInstance(typeVal Value) (Value, error) {
	obj := r.get(typeVal)
	if obj == nil || obj.kind != KindType {
		return Invalid, Fail(ErrType, "NewInstance: not a type object")
	}
	r.IncRef(typeVal)
	return r.alloc(&heapObject{
		kind:  KindObject,
		class: typeVal,
		attrs: make(map[string]Value),
	}), nil
}

// ListAppend appends a value to a list, acquiring a reference to it.
func (r *Runtime) ListAppend(list, v Value) error {
	obj := r.get(list)
	if obj == nil || obj.kind != KindList {
		return Fail(ErrType, "value is not a list")
	}
	r.IncRef(v)
	obj.elems = append(obj.elems, v)
	return nil
}

// Elems returns the elements of a list or tuple as borrowed references.
// The returned slice aliases the container; callers must not mutate it.
func (r *Runtime) Elems(v Value) ([]Value, error) {
	obj := r.get(v)
	if obj == nil || (obj.kind != KindList && obj.kind != KindTuple) {
		return nil, Fail(ErrType, "value is not a sequence")
	}
	return obj.elems, nil
}

// Items returns the key/value pairs of a dict as borrowed references.
func (r *Runtime) Items(v Value) ([][2]Value, error) {
	obj := r.get(v)
	if obj == nil || obj.kind != KindDict {
		return nil, Fail(ErrType, "value is not a dict")
	}
	pairs := make([][2]Value, 0, obj.dict.size)
	for _, bucket := range obj.dict.buckets {
		for _, ent := range bucket {
			pairs = append(pairs, [2]Value{ent.key, ent.val})
		}
	}
	return pairs, nil
}

// FuncName returns the registered name of a callable, or "" if v is not
// a native function.
func (r *Runtime) FuncName(v Value) string {
	obj := r.get(v)
	if obj == nil || obj.kind != KindFunc {
		return ""
	}
	return obj.fnName
}
