package rt

// ---------------------------------------------------------------------------
// Heap object layout
// ---------------------------------------------------------------------------

// Kind identifies the payload carried by a heap object. Small integers,
// floats, and the specials are immediates and never appear here.
type Kind int

const (
	KindInvalid Kind = iota
	KindBigInt       // int64 outside the 48-bit immediate range
	KindFloat        // reported for float immediates; never allocated
	KindComplex
	KindString
	KindList
	KindTuple
	KindDict
	KindFunc
	KindType
	KindObject // plain instance with attribute slots
)

func (k Kind) String() string {
	switch k {
	case KindBigInt:
		return "int"
	case KindFloat:
		return "float"
	case KindComplex:
		return "complex"
	case KindString:
		return "str"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	case KindFunc:
		return "function"
	case KindType:
		return "type"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// NativeFunc is the signature of a callable registered with the runtime.
type NativeFunc func(r *Runtime, args []Value, kwargs map[string]Value) (Value, error)

// MethodFunc is the signature of a method installed on a type. Attribute
// resolution binds the receiver and yields an ordinary callable.
type MethodFunc func(r *Runtime, recv Value, args []Value, kwargs map[string]Value) (Value, error)

// typeInfo is the payload of a KindType heap object.
type typeInfo struct {
	name    string
	methods map[string]MethodFunc

	// compare, when set, overrides the runtime's default ordering for
	// instances of this type. It receives the ordering token unchanged,
	// so a type is free to define an inconsistent ordering; the handle
	// layer reproduces whatever it answers.
	compare func(r *Runtime, recv, other Value, op CompareOp) (bool, error)
}

// heapObject is one entry in the runtime's object registry.
//
// refs is the explicit reference count. The registry itself holds no
// count: an object with refs == 0 is deallocated immediately, so any
// object present in the registry has refs >= 1.
type heapObject struct {
	refs int64
	kind Kind

	// Payload. Exactly one group is meaningful per kind.
	i64   int64      // KindBigInt
	cpx   complex128 // KindComplex
	str   string     // KindString
	elems []Value    // KindList, KindTuple
	dict  *dictStore // KindDict

	fn     NativeFunc // KindFunc
	fnName string     // KindFunc
	bound  Value      // KindFunc: receiver pinned by a bound method (counted)

	typ *typeInfo // KindType

	class Value            // KindObject: the instance's type (counted)
	attrs map[string]Value // KindObject, KindType: attribute slots (counted)
}

// ---------------------------------------------------------------------------
// Dict storage
// ---------------------------------------------------------------------------

// dictEntry holds one key/value pair. Both references are counted by the
// owning dict.
type dictEntry struct {
	key Value
	val Value
}

// dictStore maps key hashes to buckets of entries. Buckets resolve hash
// collisions by key equality.
type dictStore struct {
	buckets map[uint64][]dictEntry
	size    int
}

func newDictStore() *dictStore {
	return &dictStore{buckets: make(map[uint64][]dictEntry)}
}
