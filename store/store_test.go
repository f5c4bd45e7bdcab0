package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/chazu/tether/rt"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTemp(t)
	payload := []byte{0x01, 0x02, 0x03}

	if err := s.Save("first", payload); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load("first")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("loaded %x, want %x", got, payload)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTemp(t)
	if err := s.Save("name", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("name", []byte("new")); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load("name")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("loaded %q, want %q", got, "new")
	}
	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Fatalf("List after overwrite = %v, want one entry", names)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTemp(t)
	if _, err := s.Load("absent"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestListSorted(t *testing.T) {
	s := openTemp(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Save(name, []byte{0}); err != nil {
			t.Fatal(err)
		}
	}
	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("List = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("List = %v, want %v", names, want)
		}
	}
}

func TestDelete(t *testing.T) {
	s := openTemp(t)
	if err := s.Save("doomed", []byte{0}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("doomed"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load("doomed"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("load after delete error = %v, want ErrSnapshotNotFound", err)
	}
	if err := s.Delete("doomed"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("double delete error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestValueRoundTrip(t *testing.T) {
	s := openTemp(t)
	r := rt.New()

	l := r.NewList([]rt.Value{r.NewInt(1), r.NewString("kept")})
	if err := s.SaveValue(r, "graph", l); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadValue(r, "graph")
	if err != nil {
		t.Fatal(err)
	}
	eq, err := r.Compare(l, got, rt.OpEq)
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Fatal("restored value is not equal to the saved one")
	}
	r.DecRef(got)
	r.DecRef(l)
	if live := r.Live(); live != 0 {
		t.Fatalf("Live = %d, want 0", live)
	}
}

func TestValueSaveRejectsNonData(t *testing.T) {
	s := openTemp(t)
	r := rt.New()
	fn := r.NewFunc("f", func(_ *rt.Runtime, _ []rt.Value, _ map[string]rt.Value) (rt.Value, error) {
		return rt.Nil, nil
	})
	defer r.DecRef(fn)

	if err := s.SaveValue(r, "fn", fn); !rt.IsKind(err, rt.ErrType) {
		t.Fatalf("saving a function error = %v, want TypeError", err)
	}
	if _, err := s.Load("fn"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatal("a failed save must not leave a row behind")
	}
}
