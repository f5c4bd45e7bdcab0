package rt

import (
	"sync"
)

// ---------------------------------------------------------------------------
// Runtime: the object registry and reference counting
// ---------------------------------------------------------------------------

// Runtime owns every heap object and its reference count. All primitive
// protocol operations hang off it.
//
// The mutex guards only the registry map and the counts; it is never held
// while user callables run, so a native function is free to allocate and
// release objects reentrantly.
type Runtime struct {
	mu      sync.RWMutex
	objects map[uint32]*heapObject
	nextID  uint32

	typesMu sync.Mutex
	types   map[string]Value // interned type objects, one ref held here

	// builtins holds the method tables for the builtin kinds. Populated
	// once at construction, read-only afterwards.
	builtins map[Kind]map[string]MethodFunc
}

// New creates an empty runtime with the builtin types registered.
func New() *Runtime {
	r := &Runtime{
		objects:  make(map[uint32]*heapObject),
		nextID:   1, // 0 means no object
		types:    make(map[string]Value),
		builtins: make(map[Kind]map[string]MethodFunc),
	}
	r.registerBuiltinMethods()
	return r
}

// alloc registers obj with an initial count of one and returns its value.
func (r *Runtime) alloc(obj *heapObject) Value {
	obj.refs = 1
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.objects[id] = obj
	r.mu.Unlock()
	return FromHeapID(id)
}

// get returns the heap object behind v, or nil if v is not a live heap
// reference.
func (r *Runtime) get(v Value) *heapObject {
	if !v.IsHeap() {
		return nil
	}
	r.mu.RLock()
	obj := r.objects[v.HeapID()]
	r.mu.RUnlock()
	return obj
}

// IncRef acquires one counted reference to v. Immediates are not counted
// and the call is a no-op for them.
func (r *Runtime) IncRef(v Value) {
	if !v.IsHeap() {
		return
	}
	r.mu.Lock()
	if obj := r.objects[v.HeapID()]; obj != nil {
		obj.refs++
	}
	r.mu.Unlock()
}

// DecRef releases one counted reference to v. When the count reaches zero
// the object is removed from the registry and its child references are
// released in turn.
func (r *Runtime) DecRef(v Value) {
	if !v.IsHeap() {
		return
	}
	id := v.HeapID()

	r.mu.Lock()
	obj := r.objects[id]
	if obj == nil {
		r.mu.Unlock()
		return
	}
	obj.refs--
	if obj.refs > 0 {
		r.mu.Unlock()
		return
	}
	// Unregister before releasing children so a cycle cannot re-enter
	// this object.
	delete(r.objects, id)
	r.mu.Unlock()

	r.releaseChildren(obj)
}

// releaseChildren drops the references an object holds into the registry.
func (r *Runtime) releaseChildren(obj *heapObject) {
	switch obj.kind {
	case KindList, KindTuple:
		for _, e := range obj.elems {
			r.DecRef(e)
		}
		obj.elems = nil
	case KindDict:
		for _, bucket := range obj.dict.buckets {
			for _, ent := range bucket {
				r.DecRef(ent.key)
				r.DecRef(ent.val)
			}
		}
		obj.dict.buckets = nil
		obj.dict.size = 0
	case KindObject:
		r.DecRef(obj.class)
		obj.class = Invalid
	case KindFunc:
		if obj.bound.IsHeap() {
			r.DecRef(obj.bound)
			obj.bound = Invalid
		}
	}
	for _, v := range obj.attrs {
		r.DecRef(v)
	}
	obj.attrs = nil
}

// RefCount reports the live reference count of v. Immediates report one;
// a dead or invalid reference reports zero.
func (r *Runtime) RefCount(v Value) int {
	if v.IsInvalid() {
		return 0
	}
	if !v.IsHeap() {
		return 1
	}
	r.mu.RLock()
	obj := r.objects[v.HeapID()]
	r.mu.RUnlock()
	if obj == nil {
		return 0
	}
	return int(obj.refs)
}

// Live returns the number of heap objects currently registered.
// Interned type objects are excluded, so a balanced caller sees zero.
func (r *Runtime) Live() int {
	r.typesMu.Lock()
	interned := len(r.types)
	r.typesMu.Unlock()

	r.mu.RLock()
	n := len(r.objects)
	r.mu.RUnlock()
	return n - interned
}

// ---------------------------------------------------------------------------
// Type objects
// ---------------------------------------------------------------------------

// typeValue returns the interned type object for name, allocating it on
// first use. The runtime keeps the one reference returned by alloc, so
// interned types live as long as the runtime.
func (r *Runtime) typeValue(name string) Value {
	r.typesMu.Lock()
	defer r.typesMu.Unlock()
	if tv, ok := r.types[name]; ok {
		return tv
	}
	tv := r.alloc(&heapObject{
		kind: KindType,
		typ:  &typeInfo{name: name, methods: make(map[string]MethodFunc)},
	})
	r.types[name] = tv
	return tv
}

// NewType creates a fresh, non-interned type object. The caller owns the
// returned reference. Instances are created by calling the type.
func (r *Runtime) NewType(name string) Value {
	return r.alloc(&heapObject{
		kind:  KindType,
		typ:   &typeInfo{name: name, methods: make(map[string]MethodFunc)},
		attrs: make(map[string]Value),
	})
}

// AddMethod installs a native method on a type object.
func (r *Runtime) AddMethod(typeVal Value, name string, fn MethodFunc) error {
	obj := r.get(typeVal)
	if obj == nil || obj.kind != KindType {
		return Fail(ErrType, "AddMethod: not a type object")
	}
	obj.typ.methods[name] = fn
	return nil
}

// SetCompare installs a custom ordering on a type object. The hook
// receives the ordering token unchanged and its answers are reported
// as-is, consistent or not.
func (r *Runtime) SetCompare(typeVal Value, cmp func(r *Runtime, recv, other Value, op CompareOp) (bool, error)) error {
	obj := r.get(typeVal)
	if obj == nil || obj.kind != KindType {
		return Fail(ErrType, "SetCompare: not a type object")
	}
	obj.typ.compare = cmp
	return nil
}

// TypeName returns the name of a type object, or "" if v is not one.
func (r *Runtime) TypeName(v Value) string {
	obj := r.get(v)
	if obj == nil || obj.kind != KindType {
		return ""
	}
	return obj.typ.name
}

// TypeOf returns the type object for v as a fresh counted reference.
func (r *Runtime) TypeOf(v Value) Value {
	var tv Value
	switch {
	case v.IsInvalid():
		return Invalid
	case v.IsNil():
		tv = r.typeValue("NoneType")
	case v.IsBool():
		tv = r.typeValue("bool")
	case v.IsFloat():
		tv = r.typeValue("float")
	case v.IsSmallInt():
		tv = r.typeValue("int")
	default:
		obj := r.get(v)
		if obj == nil {
			return Invalid
		}
		switch obj.kind {
		case KindObject:
			tv = obj.class
		case KindType:
			tv = r.typeValue("type")
		default:
			tv = r.typeValue(obj.kind.String())
		}
	}
	r.IncRef(tv)
	return tv
}
