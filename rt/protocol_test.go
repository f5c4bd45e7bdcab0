package rt

import (
	"math"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Attribute protocol
// ---------------------------------------------------------------------------

func TestAttrRoundTrip(t *testing.T) {
	r := New()
	typ := r.NewType("Box")
	inst, err := r.NewInstance(typ)
	if err != nil {
		t.Fatal(err)
	}
	val := r.NewString("payload")

	if r.HasAttr(inst, "x") {
		t.Fatal("fresh instance should have no attribute x")
	}
	if err := r.SetAttr(inst, "x", val); err != nil {
		t.Fatal(err)
	}
	if !r.HasAttr(inst, "x") {
		t.Fatal("HasAttr after SetAttr = false")
	}
	got, err := r.GetAttr(inst, "x")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := r.AsString(got); s != "payload" {
		t.Fatalf("attribute value = %q, want %q", s, "payload")
	}
	r.DecRef(got)

	if err := r.DelAttr(inst, "x"); err != nil {
		t.Fatal(err)
	}
	if r.HasAttr(inst, "x") {
		t.Fatal("HasAttr after DelAttr = true")
	}
	if err := r.DelAttr(inst, "x"); !IsKind(err, ErrAttribute) {
		t.Fatalf("deleting absent attribute error = %v, want AttributeError", err)
	}

	r.DecRef(val)
	r.DecRef(inst)
	r.DecRef(typ)
	if got := r.Live(); got != 0 {
		t.Fatalf("Live = %d, want 0", got)
	}
}

func TestSetAttrOverItself(t *testing.T) {
	r := New()
	typ := r.NewType("Box")
	inst, _ := r.NewInstance(typ)
	val := r.NewString("v")

	if err := r.SetAttr(inst, "x", val); err != nil {
		t.Fatal(err)
	}
	// Storing the attribute over itself must not drop it.
	if err := r.SetAttr(inst, "x", val); err != nil {
		t.Fatal(err)
	}
	got, err := r.GetAttr(inst, "x")
	if err != nil {
		t.Fatal(err)
	}
	r.DecRef(got)
	r.DecRef(val)
	r.DecRef(inst)
	r.DecRef(typ)
}

func TestSetAttrReadOnly(t *testing.T) {
	r := New()
	s := r.NewString("abc")
	defer r.DecRef(s)
	if err := r.SetAttr(s, "x", Nil); !IsKind(err, ErrAttribute) {
		t.Fatalf("SetAttr on string error = %v, want AttributeError", err)
	}
}

// ---------------------------------------------------------------------------
// Item protocol
// ---------------------------------------------------------------------------

func TestListItems(t *testing.T) {
	r := New()
	a := r.NewInt(10)
	b := r.NewInt(20)
	l := r.NewList([]Value{a, b})

	got, err := r.GetItem(l, r.NewInt(0))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := r.AsInt(got); n != 10 {
		t.Fatalf("l[0] = %d, want 10", n)
	}

	// Negative index counts from the end
	got, err = r.GetItem(l, r.NewInt(-1))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := r.AsInt(got); n != 20 {
		t.Fatalf("l[-1] = %d, want 20", n)
	}

	if _, err := r.GetItem(l, r.NewInt(2)); !IsKind(err, ErrIndex) {
		t.Fatalf("l[2] error = %v, want IndexError", err)
	}
	if _, err := r.GetItem(l, r.NewString("x")); !IsKind(err, ErrType) {
		t.Fatalf("l[\"x\"] error = %v, want TypeError", err)
	}

	if err := r.SetItem(l, r.NewInt(1), r.NewInt(99)); err != nil {
		t.Fatal(err)
	}
	got2, _ := r.GetItem(l, r.NewInt(1))
	if n, _ := r.AsInt(got2); n != 99 {
		t.Fatalf("l[1] after assignment = %d, want 99", n)
	}
	if err := r.SetItem(l, r.NewInt(5), Nil); !IsKind(err, ErrIndex) {
		t.Fatalf("l[5] = ... error = %v, want IndexError", err)
	}

	r.DecRef(l)
	if got := r.Live(); got != 0 {
		t.Fatalf("Live = %d, want 0", got)
	}
}

func TestDictItems(t *testing.T) {
	r := New()
	d := r.NewDict()
	k := r.NewString("name")
	v := r.NewString("tether")

	if _, err := r.GetItem(d, k); !IsKind(err, ErrKey) {
		t.Fatal("missing key should fail with KeyError")
	}
	if err := r.SetItem(d, k, v); err != nil {
		t.Fatal(err)
	}

	// Lookup through a different but equal key value
	k2 := r.NewString("name")
	got, err := r.GetItem(d, k2)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := r.AsString(got); s != "tether" {
		t.Fatalf("d[name] = %q, want %q", s, "tether")
	}
	r.DecRef(got)

	// Overwrite keeps one entry
	v2 := r.NewString("replaced")
	if err := r.SetItem(d, k2, v2); err != nil {
		t.Fatal(err)
	}
	if n, _ := r.Size(d); n != 1 {
		t.Fatalf("dict size after overwrite = %d, want 1", n)
	}

	if err := r.DelItem(d, k); err != nil {
		t.Fatal(err)
	}
	if n, _ := r.Size(d); n != 0 {
		t.Fatalf("dict size after delete = %d, want 0", n)
	}

	r.DecRef(k)
	r.DecRef(k2)
	r.DecRef(v)
	r.DecRef(v2)
	r.DecRef(d)
	if got := r.Live(); got != 0 {
		t.Fatalf("Live = %d, want 0", got)
	}
}

func TestUnhashableKey(t *testing.T) {
	r := New()
	d := r.NewDict()
	l := r.NewList(nil)
	defer r.DecRef(d)
	defer r.DecRef(l)

	if err := r.SetItem(d, l, Nil); !IsKind(err, ErrValue) {
		t.Fatalf("list key error = %v, want ValueError", err)
	}
}

// ---------------------------------------------------------------------------
// Call protocol
// ---------------------------------------------------------------------------

func TestCallFunc(t *testing.T) {
	r := New()
	double := r.NewFunc("double", func(rt *Runtime, args []Value, _ map[string]Value) (Value, error) {
		if len(args) != 1 {
			return Invalid, Fail(ErrCall, "double() takes 1 argument")
		}
		n, err := rt.AsInt(args[0])
		if err != nil {
			return Invalid, err
		}
		return rt.NewInt(n * 2), nil
	})

	got, err := r.Call(double, []Value{r.NewInt(21)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := r.AsInt(got); n != 42 {
		t.Fatalf("double(21) = %d, want 42", n)
	}

	if _, err := r.Call(double, nil, nil); !IsKind(err, ErrCall) {
		t.Fatalf("double() error = %v, want CallError", err)
	}

	r.DecRef(double)
	if got := r.Live(); got != 0 {
		t.Fatalf("Live = %d, want 0", got)
	}
}

func TestCallNotCallable(t *testing.T) {
	r := New()
	s := r.NewString("abc")
	defer r.DecRef(s)
	if _, err := r.Call(s, nil, nil); !IsKind(err, ErrType) {
		t.Fatalf("calling a string error = %v, want TypeError", err)
	}
	if r.IsCallable(s) {
		t.Error("IsCallable(string) = true")
	}
}

func TestCallTypeConstructs(t *testing.T) {
	r := New()
	typ := r.NewType("Config")
	inst, err := r.Call(typ, nil, map[string]Value{"port": r.NewInt(4567)})
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.GetAttr(inst, "port")
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := r.AsInt(got); n != 4567 {
		t.Fatalf("constructed attribute = %d, want 4567", n)
	}
	r.DecRef(got)
	r.DecRef(inst)
	r.DecRef(typ)
}

func TestBuiltinMethods(t *testing.T) {
	r := New()
	s := r.NewString("Hello")

	m, err := r.GetAttr(s, "upper")
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.Call(m, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if up, _ := r.AsString(got); up != "HELLO" {
		t.Fatalf("upper() = %q, want %q", up, "HELLO")
	}
	r.DecRef(got)
	r.DecRef(m)
	r.DecRef(s)
	if got := r.Live(); got != 0 {
		t.Fatalf("Live = %d, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// Comparison, hashing, repr
// ---------------------------------------------------------------------------

func TestCompareNumbers(t *testing.T) {
	r := New()
	tests := []struct {
		a, b Value
		op   CompareOp
		want bool
	}{
		{r.NewInt(1), r.NewInt(2), OpLt, true},
		{r.NewInt(2), r.NewInt(1), OpLt, false},
		{r.NewInt(2), r.NewFloat(2.0), OpEq, true},
		{r.NewFloat(2.5), r.NewInt(2), OpGt, true},
		{r.NewBool(true), r.NewInt(1), OpEq, true},
		{r.NewInt(3), r.NewInt(3), OpGe, true},
		{r.NewInt(3), r.NewInt(4), OpNe, true},
		// NaN is unordered against everything, itself included.
		{r.NewFloat(math.NaN()), r.NewInt(5), OpLt, false},
		{r.NewFloat(math.NaN()), r.NewInt(5), OpGt, false},
		{r.NewFloat(math.NaN()), r.NewInt(5), OpLe, false},
		{r.NewFloat(math.NaN()), r.NewInt(5), OpGe, false},
		{r.NewFloat(math.NaN()), r.NewInt(5), OpEq, false},
		{r.NewFloat(math.NaN()), r.NewInt(5), OpNe, true},
		{r.NewFloat(math.NaN()), r.NewFloat(math.NaN()), OpLe, false},
		{r.NewFloat(math.NaN()), r.NewFloat(math.NaN()), OpEq, false},
	}
	for _, tt := range tests {
		got, err := r.Compare(tt.a, tt.b, tt.op)
		if err != nil {
			t.Errorf("Compare(%v): %v", tt.op, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Compare op %v = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestCompareStringsAndSequences(t *testing.T) {
	r := New()
	a := r.NewString("apple")
	b := r.NewString("banana")
	lt, err := r.Compare(a, b, OpLt)
	if err != nil || !lt {
		t.Fatalf("apple < banana = %v, %v", lt, err)
	}

	l1 := r.NewList([]Value{r.NewInt(1), r.NewInt(2)})
	l2 := r.NewList([]Value{r.NewInt(1), r.NewInt(3)})
	lt, err = r.Compare(l1, l2, OpLt)
	if err != nil || !lt {
		t.Fatalf("[1,2] < [1,3] = %v, %v", lt, err)
	}
	eq, err := r.Compare(l1, l2, OpEq)
	if err != nil || eq {
		t.Fatalf("[1,2] == [1,3] = %v, %v", eq, err)
	}

	r.DecRef(a)
	r.DecRef(b)
	r.DecRef(l1)
	r.DecRef(l2)
}

func TestCompareUnorderable(t *testing.T) {
	r := New()
	s := r.NewString("abc")
	defer r.DecRef(s)
	if _, err := r.Compare(s, r.NewInt(1), OpLt); !IsKind(err, ErrValue) {
		t.Fatalf("string < int error = %v, want ValueError", err)
	}
	// Equality across kinds is total
	eq, err := r.Compare(s, r.NewInt(1), OpEq)
	if err != nil || eq {
		t.Fatalf("string == int = %v, %v", eq, err)
	}
}

func TestHash(t *testing.T) {
	r := New()
	h1, err := r.Hash(r.NewInt(5))
	if err != nil {
		t.Fatal(err)
	}
	h2, err := r.Hash(r.NewFloat(5.0))
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Error("hash(5) != hash(5.0): equal numbers must hash equal")
	}

	s1 := r.NewString("same")
	s2 := r.NewString("same")
	hs1, _ := r.Hash(s1)
	hs2, _ := r.Hash(s2)
	if hs1 != hs2 {
		t.Error("equal strings must hash equal")
	}
	r.DecRef(s1)
	r.DecRef(s2)

	l := r.NewList(nil)
	defer r.DecRef(l)
	if _, err := r.Hash(l); !IsKind(err, ErrValue) {
		t.Fatalf("hash(list) error = %v, want ValueError", err)
	}
}

func TestSize(t *testing.T) {
	r := New()
	s := r.NewString("héllo")
	if n, err := r.Size(s); err != nil || n != 5 {
		t.Errorf("Size(héllo) = %d, %v, want 5 (runes)", n, err)
	}
	r.DecRef(s)

	if _, err := r.Size(r.NewInt(5)); !IsKind(err, ErrType) {
		t.Error("Size(int) should fail with TypeError")
	}
}

func TestRepr(t *testing.T) {
	r := New()
	tests := []struct {
		v    Value
		want string
	}{
		{r.NewInt(5), "5"},
		{r.NewFloat(2.5), "2.5"},
		{r.NewFloat(3), "3.0"},
		{Nil, "None"},
		{True, "True"},
		{r.NewString("hi"), `"hi"`},
		{r.NewList([]Value{r.NewInt(1), r.NewInt(2)}), "[1, 2]"},
		{r.NewTuple([]Value{r.NewInt(1)}), "(1,)"},
	}
	for _, tt := range tests {
		rv, err := r.Repr(tt.v)
		if err != nil {
			t.Errorf("Repr: %v", err)
			continue
		}
		if s, _ := r.AsString(rv); s != tt.want {
			t.Errorf("Repr = %q, want %q", s, tt.want)
		}
		r.DecRef(rv)
		r.DecRef(tt.v)
	}
}

func TestStrUnquoted(t *testing.T) {
	r := New()
	s := r.NewString("plain")
	defer r.DecRef(s)
	sv, err := r.Str(s)
	if err != nil {
		t.Fatal(err)
	}
	defer r.DecRef(sv)
	if got, _ := r.AsString(sv); got != "plain" {
		t.Fatalf("Str = %q, want %q", got, "plain")
	}
	if rv, _ := r.Repr(s); rv != Invalid {
		if got, _ := r.AsString(rv); !strings.HasPrefix(got, `"`) {
			t.Errorf("Repr of text should be quoted, got %q", got)
		}
		r.DecRef(rv)
	}
}

func TestTruthiness(t *testing.T) {
	r := New()
	empty := r.NewString("")
	full := r.NewString("x")
	defer r.DecRef(empty)
	defer r.DecRef(full)

	falsy := []Value{False, Nil, r.NewInt(0), r.NewFloat(0), empty, Invalid}
	for _, v := range falsy {
		if r.IsTrue(v) {
			t.Errorf("IsTrue(%v) = true, want false", uint64(v))
		}
	}
	truthy := []Value{True, r.NewInt(1), r.NewFloat(0.5), full}
	for _, v := range truthy {
		if !r.IsTrue(v) {
			t.Errorf("IsTrue(%v) = false, want true", uint64(v))
		}
	}
}
