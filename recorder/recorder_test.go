package recorder

import (
	"reflect"
	"testing"
)

func TestStoreAppendGet(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if c := store.Count(); c != 0 {
		t.Fatalf("fresh store has %d records", c)
	}

	rec, err := store.Append(0.01, []float64{1, 2}, []float64{3, 4}, []float64{5, 6}, []float64{7, 8})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Step != 0 {
		t.Fatalf("first record got step %d", rec.Step)
	}

	if _, err := store.Append(0.02, []float64{2, 3}, nil, nil, []float64{9, 10}); err != nil {
		t.Fatal(err)
	}
	if c := store.Count(); c != 2 {
		t.Fatalf("expected 2 records, got %d", c)
	}

	got, err := store.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, rec) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, rec)
	}

	if _, err := store.Get(99); err == nil {
		t.Fatal("expected an error for a missing step")
	}
}

func TestStoreReopenBootstrap(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Append(float64(i)*0.01, []float64{float64(i)}, nil, nil, []float64{0}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if c := store.Count(); c != 3 {
		t.Fatalf("reopened store counts %d records, want 3", c)
	}

	rec, err := store.Append(0.03, []float64{3}, nil, nil, []float64{0})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Step != 3 {
		t.Fatalf("appended step %d after reopen, want 3", rec.Step)
	}
}
