// Package recorder persists the element responses of committed analysis
// steps, so a hybrid test can be replayed or inspected after the run.
package recorder

import (
	"bytes"
	"fmt"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

// Record is one committed analysis step in basic space.
type Record struct {
	Step  int
	Time  float64
	Disp  []float64
	Vel   []float64
	Accel []float64
	Force []float64
}

// Marshal - canonical json encoding of Record
func (r *Record) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal ...
func (r *Record) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	return dec.Decode(r)
}

func commitKey(step int) []byte {
	return []byte(fmt.Sprintf("commit:%09d", step))
}

// Store is a badger-backed append-only store of commit records.
type Store struct {
	db   *badger.DB
	path string
	next int
}

// NewStore opens (or creates) a store at path and positions the step
// counter after the last persisted record.
func NewStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open recorder db")
	}

	s := &Store{db: db, path: path}
	if err := s.bootstrap(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap() error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		n := 0
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		s.next = n
		return nil
	})
}

// Count returns the number of persisted records.
func (s *Store) Count() int { return s.next }

// Append persists one committed step and returns it with its step number.
// Slices are copied.
func (s *Store) Append(t float64, disp, vel, accel, force []float64) (*Record, error) {
	rec := &Record{
		Step:  s.next,
		Time:  t,
		Disp:  append([]float64(nil), disp...),
		Vel:   append([]float64(nil), vel...),
		Accel: append([]float64(nil), accel...),
		Force: append([]float64(nil), force...),
	}

	val, err := rec.Marshal()
	if err != nil {
		return nil, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(commitKey(rec.Step), val)
	})
	if err != nil {
		return nil, errors.Wrap(err, "append record")
	}

	s.next++
	return rec, nil
}

// Get fetches a persisted step.
func (s *Store) Get(step int) (*Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(commitKey(step))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return rec.Unmarshal(val)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get record %d", step)
	}
	return &rec, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
