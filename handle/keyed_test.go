package handle

import (
	"testing"

	"github.com/chazu/tether/rt"
)

// ---------------------------------------------------------------------------
// Indexed access as an lvalue
// ---------------------------------------------------------------------------

func TestIndexReadsExistingEntry(t *testing.T) {
	r := rt.New()
	d := Steal(r, r.NewDict())
	defer d.Close()

	key := FromString(r, "k")
	defer key.Close()
	if err := d.SetItem(key, "stored"); err != nil {
		t.Fatal(err)
	}

	ref, err := d.Index("k")
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()
	if ref.IsNull() {
		t.Fatal("reference to an existing entry should not be null")
	}
	if s, err := ref.String(); err != nil || s != "stored" {
		t.Fatalf("read through reference = %q, %v", s, err)
	}
}

func TestIndexMissingKeyIsNotAnError(t *testing.T) {
	r := rt.New()
	d := Steal(r, r.NewDict())
	defer d.Close()

	// Constructing an assignment target for an absent key succeeds with a
	// null referent; only reading it would be meaningless.
	ref, err := d.Index("absent")
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()
	if !ref.IsNull() {
		t.Fatal("reference to an absent key should start null")
	}
	if got := r.Live(); got != 2 {
		t.Fatalf("Live = %d, want 2 (dict and stored key)", got)
	}
}

func TestIndexOutOfRangePropagates(t *testing.T) {
	r := rt.New()
	l := Steal(r, r.NewList([]rt.Value{r.NewInt(1)}))
	defer l.Close()

	if _, err := l.Index(5); !rt.IsKind(err, rt.ErrIndex) {
		t.Fatalf("sequence index out of range error = %v, want IndexError", err)
	}
	// The failed construction leaves nothing behind.
	if got := r.Live(); got != 1 {
		t.Fatalf("Live = %d, want 1 (only the list)", got)
	}
}

func TestSetWritesBackThroughParent(t *testing.T) {
	r := rt.New()
	d := Steal(r, r.NewDict())
	defer d.Close()

	ref, err := d.Index("name")
	if err != nil {
		t.Fatal(err)
	}
	if err := ref.Set("tether"); err != nil {
		t.Fatal(err)
	}
	// The reference itself now reads the assigned value.
	if s, err := ref.String(); err != nil || s != "tether" {
		t.Fatalf("read after assignment = %q, %v", s, err)
	}
	ref.Close()

	// And so does the container.
	v, err := d.GetItem("name")
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.String(); s != "tether" {
		t.Fatalf("d[name] = %q, want %q", s, "tether")
	}
	v.Close()
}

func TestSetOverwritesListSlot(t *testing.T) {
	r := rt.New()
	l := Steal(r, r.NewList([]rt.Value{r.NewInt(1), r.NewInt(2)}))
	defer l.Close()

	ref, err := l.Index(0)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := ref.Int(); n != 1 {
		t.Fatalf("l[0] before assignment = %d", n)
	}
	if err := ref.Set(99); err != nil {
		t.Fatal(err)
	}
	ref.Close()

	v, err := l.GetItem(0)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := v.Int(); n != 99 {
		t.Fatalf("l[0] after assignment = %d, want 99", n)
	}
	v.Close()
}

func TestKeyedRefChaining(t *testing.T) {
	r := rt.New()
	outer := Steal(r, r.NewDict())
	defer outer.Close()

	inner := Steal(r, r.NewDict())
	k := FromString(r, "inner")
	if err := outer.SetItem(k, inner); err != nil {
		t.Fatal(err)
	}
	k.Close()
	inner.Close()

	ref, err := outer.Index("inner")
	if err != nil {
		t.Fatal(err)
	}
	deep, err := ref.Index("x")
	if err != nil {
		t.Fatal(err)
	}
	if err := deep.Set(7); err != nil {
		t.Fatal(err)
	}
	deep.Close()
	ref.Close()

	got, err := outer.GetItem("inner")
	if err != nil {
		t.Fatal(err)
	}
	x, err := got.GetItem("x")
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := x.Int(); n != 7 {
		t.Fatalf("outer[inner][x] = %d, want 7", n)
	}
	x.Close()
	got.Close()
}

func TestKeyedRefKeyOutlivesCaller(t *testing.T) {
	r := rt.New()
	d := Steal(r, r.NewDict())
	defer d.Close()

	key := FromString(r, "transient")
	ref, err := d.Index(key)
	if err != nil {
		t.Fatal(err)
	}
	// The caller's key goes away; the reference keeps its own copy.
	key.Close()

	if err := ref.Set(true); err != nil {
		t.Fatal(err)
	}
	if s, err := ref.Key().String(); err != nil || s != "transient" {
		t.Fatalf("stored key = %q, %v", s, err)
	}
	ref.Close()

	v, err := d.GetItem("transient")
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	if b, _ := v.Bool(); !b {
		t.Fatal("d[transient] should be true")
	}
}

func TestSetWriteBackFailurePropagates(t *testing.T) {
	r := rt.New()
	tup := Steal(r, r.NewTuple([]rt.Value{r.NewInt(1)}))
	defer tup.Close()

	// A tuple slot can be read through an indexed reference but not
	// assigned. The local referent is updated before the write-back is
	// attempted, so the failure leaves the reference pointing at the new
	// value while the container is untouched.
	ref, err := tup.Index(0)
	if err != nil {
		t.Fatal(err)
	}
	defer ref.Close()
	if n, _ := ref.Int(); n != 1 {
		t.Fatalf("tuple[0] before assignment = %d", n)
	}

	if err := ref.Set(99); !rt.IsKind(err, rt.ErrType) {
		t.Fatalf("assignment into a tuple error = %v, want TypeError", err)
	}
	if n, _ := ref.Int(); n != 99 {
		t.Fatalf("local referent after failed write-back = %d, want 99", n)
	}
	v, err := tup.GetItem(0)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	if n, _ := v.Int(); n != 1 {
		t.Fatalf("tuple[0] after failed write-back = %d, want 1", n)
	}
}

func TestDetachedKeyedRef(t *testing.T) {
	r := rt.New()
	d := Steal(r, r.NewDict())
	defer d.Close()

	ref, err := d.Index("k")
	if err != nil {
		t.Fatal(err)
	}
	ref.Close()
	if err := ref.Set(1); !rt.IsKind(err, rt.ErrContract) {
		t.Fatalf("assignment through a closed reference error = %v, want ContractError", err)
	}
}

func TestKeyedRefBalancesReferences(t *testing.T) {
	r := rt.New()
	d := Steal(r, r.NewDict())

	ref, err := d.Index("a")
	if err != nil {
		t.Fatal(err)
	}
	if err := ref.Set("value"); err != nil {
		t.Fatal(err)
	}
	ref.Close()

	key := FromString(r, "a")
	if err := d.SetItem(key, rt.Nil); err != nil {
		t.Fatal(err)
	}
	key.Close()

	d.Close()
	if got := r.Live(); got != 0 {
		t.Fatalf("Live = %d, want 0", got)
	}
}
