// Package wire serializes runtime value graphs to CBOR and back.
//
// Snapshots cover data values: nil, booleans, integers, floats, complex
// numbers, text, and lists/tuples/dicts of those. Functions, types, and
// instances are live runtime state and do not serialize. Encoding is
// canonical, so equal graphs produce identical bytes.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/tether/rt"
)

// cborEncMode is the canonical CBOR encoding mode used for all
// snapshots, for deterministic output.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Node kinds in the snapshot format.
const (
	kindNone    = "none"
	kindBool    = "bool"
	kindInt     = "int"
	kindFloat   = "float"
	kindComplex = "complex"
	kindStr     = "str"
	kindList    = "list"
	kindTuple   = "tuple"
	kindDict    = "dict"
)

// node is one value in a snapshot. Dicts carry parallel key/value
// slices so keys of any hashable kind round-trip.
type node struct {
	Kind  string  `cbor:"k"`
	Bool  bool    `cbor:"b,omitempty"`
	Int   int64   `cbor:"i,omitempty"`
	// Float fields are never omitted: negative zero equals zero in Go,
	// and omitempty would decode it back as positive zero.
	Float float64 `cbor:"f"`
	Real  float64 `cbor:"re"`
	Imag  float64 `cbor:"im"`
	Str   string  `cbor:"s,omitempty"`
	Elems []node  `cbor:"e,omitempty"`
	Keys  []node  `cbor:"dk,omitempty"`
	Vals  []node  `cbor:"dv,omitempty"`
}

// Marshal serializes the value graph rooted at v to CBOR bytes.
// Cyclic graphs and non-data values fail.
func Marshal(r *rt.Runtime, v rt.Value) ([]byte, error) {
	n, err := encode(r, v, make(map[uint32]bool))
	if err != nil {
		return nil, err
	}
	data, err := cborEncMode.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal deserializes CBOR bytes into a freshly built value graph.
// The caller owns the returned reference.
func Unmarshal(r *rt.Runtime, data []byte) (rt.Value, error) {
	var n node
	if err := cbor.Unmarshal(data, &n); err != nil {
		return rt.Invalid, fmt.Errorf("wire: unmarshal snapshot: %w", err)
	}
	return decode(r, &n)
}

func encode(r *rt.Runtime, v rt.Value, seen map[uint32]bool) (*node, error) {
	switch {
	case v.IsInvalid():
		return nil, rt.Fail(rt.ErrContract, "snapshot of no value")
	case v.IsNil():
		return &node{Kind: kindNone}, nil
	case v.IsBool():
		return &node{Kind: kindBool, Bool: v.Bool()}, nil
	case v.IsSmallInt():
		return &node{Kind: kindInt, Int: v.SmallInt()}, nil
	case v.IsFloat():
		return &node{Kind: kindFloat, Float: v.Float64()}, nil
	}

	if v.IsHeap() {
		id := v.HeapID()
		if seen[id] {
			return nil, rt.Fail(rt.ErrValue, "snapshot of cyclic value graph")
		}
		seen[id] = true
		defer delete(seen, id)
	}

	switch r.KindOf(v) {
	case rt.KindBigInt:
		n, err := r.AsInt(v)
		if err != nil {
			return nil, err
		}
		return &node{Kind: kindInt, Int: n}, nil
	case rt.KindComplex:
		c, err := r.AsComplex(v)
		if err != nil {
			return nil, err
		}
		return &node{Kind: kindComplex, Real: real(c), Imag: imag(c)}, nil
	case rt.KindString:
		s, err := r.AsString(v)
		if err != nil {
			return nil, err
		}
		return &node{Kind: kindStr, Str: s}, nil
	case rt.KindList, rt.KindTuple:
		elems, err := r.Elems(v)
		if err != nil {
			return nil, err
		}
		kind := kindList
		if r.IsTuple(v) {
			kind = kindTuple
		}
		n := &node{Kind: kind, Elems: make([]node, 0, len(elems))}
		for _, e := range elems {
			en, err := encode(r, e, seen)
			if err != nil {
				return nil, err
			}
			n.Elems = append(n.Elems, *en)
		}
		return n, nil
	case rt.KindDict:
		pairs, err := r.Items(v)
		if err != nil {
			return nil, err
		}
		n := &node{
			Kind: kindDict,
			Keys: make([]node, 0, len(pairs)),
			Vals: make([]node, 0, len(pairs)),
		}
		for _, kv := range pairs {
			kn, err := encode(r, kv[0], seen)
			if err != nil {
				return nil, err
			}
			vn, err := encode(r, kv[1], seen)
			if err != nil {
				return nil, err
			}
			n.Keys = append(n.Keys, *kn)
			n.Vals = append(n.Vals, *vn)
		}
		return n, nil
	}
	return nil, rt.Failf(rt.ErrType, "value of kind '%s' does not serialize", r.KindOf(v))
}

func decode(r *rt.Runtime, n *node) (rt.Value, error) {
	switch n.Kind {
	case kindNone:
		return rt.Nil, nil
	case kindBool:
		return rt.FromBool(n.Bool), nil
	case kindInt:
		return r.NewInt(n.Int), nil
	case kindFloat:
		return rt.FromFloat64(n.Float), nil
	case kindComplex:
		return r.NewComplex(complex(n.Real, n.Imag)), nil
	case kindStr:
		return r.NewString(n.Str), nil
	case kindList, kindTuple:
		elems := make([]rt.Value, 0, len(n.Elems))
		release := func() {
			for _, e := range elems {
				r.DecRef(e)
			}
		}
		for i := range n.Elems {
			e, err := decode(r, &n.Elems[i])
			if err != nil {
				release()
				return rt.Invalid, err
			}
			elems = append(elems, e)
		}
		var v rt.Value
		if n.Kind == kindTuple {
			v = r.NewTuple(elems)
		} else {
			v = r.NewList(elems)
		}
		// The container retains its elements; drop the build refs.
		release()
		return v, nil
	case kindDict:
		if len(n.Keys) != len(n.Vals) {
			return rt.Invalid, fmt.Errorf("wire: malformed dict node: %d keys, %d values", len(n.Keys), len(n.Vals))
		}
		d := r.NewDict()
		for i := range n.Keys {
			k, err := decode(r, &n.Keys[i])
			if err != nil {
				r.DecRef(d)
				return rt.Invalid, err
			}
			v, err := decode(r, &n.Vals[i])
			if err != nil {
				r.DecRef(k)
				r.DecRef(d)
				return rt.Invalid, err
			}
			err = r.SetItem(d, k, v)
			r.DecRef(k)
			r.DecRef(v)
			if err != nil {
				r.DecRef(d)
				return rt.Invalid, err
			}
		}
		return d, nil
	}
	return rt.Invalid, fmt.Errorf("wire: unknown node kind %q", n.Kind)
}
