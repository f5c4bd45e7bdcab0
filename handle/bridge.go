package handle

import (
	"github.com/chazu/tether/rt"
)

// Bridge is the primitive operation set the handle layer requires from a
// host runtime: allocation of scalar and text values, reference count
// maintenance, and the attribute/item/call/comparison protocols. The
// reference runtime in package rt satisfies it; any other host can be
// substituted behind the same surface.
type Bridge interface {
	// Allocation from native inputs. Each returns a fresh counted
	// reference (immediates are uncounted and behave as if immortal).
	NewBool(bool) rt.Value
	NewInt(int64) rt.Value
	NewUint(uint64) rt.Value
	NewFloat(float64) rt.Value
	NewComplex(complex128) rt.Value
	NewString(string) rt.Value

	// Reference counting.
	IncRef(rt.Value)
	DecRef(rt.Value)
	RefCount(rt.Value) int

	// Scalar extraction.
	AsBool(rt.Value) (bool, error)
	AsInt(rt.Value) (int64, error)
	AsUint(rt.Value) (uint64, error)
	AsFloat(rt.Value) (float64, error)
	AsComplex(rt.Value) (complex128, error)
	AsString(rt.Value) (string, error)

	// Attribute protocol. GetAttr returns an owned reference.
	HasAttr(v rt.Value, name string) bool
	GetAttr(v rt.Value, name string) (rt.Value, error)
	SetAttr(v rt.Value, name string, val rt.Value) error
	DelAttr(v rt.Value, name string) error

	// Item protocol. GetItem returns an owned reference.
	GetItem(container, key rt.Value) (rt.Value, error)
	SetItem(container, key, val rt.Value) error

	// Calling and comparison. Call returns an owned reference.
	Call(fn rt.Value, args []rt.Value, kwargs map[string]rt.Value) (rt.Value, error)
	Compare(a, b rt.Value, op rt.CompareOp) (bool, error)

	// Queries. Repr, Str, and TypeOf return owned references.
	Hash(rt.Value) (uint64, error)
	Size(rt.Value) (int, error)
	Repr(rt.Value) (rt.Value, error)
	Str(rt.Value) (rt.Value, error)
	IsTrue(rt.Value) bool
	IsCallable(rt.Value) bool
	TypeOf(rt.Value) rt.Value

	// Kind predicates. None of these fail.
	KindOf(rt.Value) rt.Kind
	IsInt(rt.Value) bool
	IsFloatValue(rt.Value) bool
	IsComplex(rt.Value) bool
	IsString(rt.Value) bool
	IsList(rt.Value) bool
	IsTuple(rt.Value) bool
	IsDict(rt.Value) bool
}

var _ Bridge = (*rt.Runtime)(nil)
