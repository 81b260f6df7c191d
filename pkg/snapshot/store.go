// Package snapshot provides the backing store for an in-memory collection.
//
// A Store owns the current snapshot of a collection: an ordered slice that is
// never modified once published. Every mutation reads the current snapshot,
// builds a new slice and swaps it in, so enumerations holding an older
// snapshot keep a stable view while later reads observe the new one in full.
package snapshot

import (
	"fmt"
	"reflect"
	"slices"
	"sync/atomic"

	"github.com/google/go-cmp/cmp"

	"github.com/pay-theory/dynamock/pkg/errors"
)

// KeyFunc extracts the identity of an entity
type KeyFunc[T any] func(T) any

// Store holds the current snapshot for one collection
type Store[T any] struct {
	name     string
	current  atomic.Pointer[[]T]
	key      KeyFunc[T]
	readOnly bool
}

// Option configures a Store
type Option[T any] func(*Store[T])

// WithKey sets the identity function used by Remove and Update
func WithKey[T any](key KeyFunc[T]) Option[T] {
	return func(s *Store[T]) {
		s.key = key
	}
}

// WithName sets the collection name used in errors
func WithName[T any](name string) Option[T] {
	return func(s *Store[T]) {
		s.name = name
	}
}

// New creates a writable store seeded with items
func New[T any](seed []T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{}
	for _, opt := range opts {
		opt(s)
	}
	if s.name == "" {
		s.name = reflect.TypeFor[T]().String()
	}
	s.Replace(seed)
	return s
}

// NewReadOnly creates a store that rejects tracked writes. Seed and Clear
// still work so fixtures can be staged.
func NewReadOnly[T any](seed []T, opts ...Option[T]) *Store[T] {
	s := New(seed, opts...)
	s.readOnly = true
	return s
}

// Name returns the collection name
func (s *Store[T]) Name() string {
	return s.name
}

// ReadOnly reports whether tracked writes are rejected
func (s *Store[T]) ReadOnly() bool {
	return s.readOnly
}

// HasKey reports whether an identity function is configured
func (s *Store[T]) HasKey() bool {
	return s.key != nil
}

// Current returns the current snapshot. Callers must not modify it.
func (s *Store[T]) Current() []T {
	return *s.current.Load()
}

// Len returns the number of items in the current snapshot
func (s *Store[T]) Len() int {
	return len(s.Current())
}

// Replace publishes a copy of items as the new snapshot
func (s *Store[T]) Replace(items []T) {
	next := slices.Clip(slices.Clone(items))
	if next == nil {
		next = []T{}
	}
	s.current.Store(&next)
}

// Seed appends fixture items, bypassing the read-only check
func (s *Store[T]) Seed(items ...T) {
	s.Replace(append(slices.Clone(s.Current()), items...))
}

// Clear empties the store, bypassing the read-only check
func (s *Store[T]) Clear() {
	s.Replace(nil)
}

// Add appends one item
func (s *Store[T]) Add(item T) error {
	return s.AddRange(item)
}

// AddRange appends items in order
func (s *Store[T]) AddRange(items ...T) error {
	if err := s.checkWritable("add"); err != nil {
		return err
	}
	s.Replace(append(slices.Clone(s.Current()), items...))
	return nil
}

// Remove removes the first occurrence of item
func (s *Store[T]) Remove(item T) error {
	return s.RemoveRange(item)
}

// RemoveRange removes the first occurrence of each item. Items are matched
// by key when one is configured, otherwise structurally. Items not present
// are ignored.
func (s *Store[T]) RemoveRange(items ...T) error {
	if err := s.checkWritable("remove"); err != nil {
		return err
	}

	next := slices.Clone(s.Current())
	for _, item := range items {
		idx := slices.IndexFunc(next, func(existing T) bool {
			return s.same(existing, item)
		})
		if idx >= 0 {
			next = slices.Delete(next, idx, idx+1)
		}
	}
	s.Replace(next)
	return nil
}

// RemoveFunc removes every item for which match returns true and reports
// how many were removed
func (s *Store[T]) RemoveFunc(match func(T) bool) (int, error) {
	if err := s.checkWritable("remove"); err != nil {
		return 0, err
	}

	current := s.Current()
	next := slices.DeleteFunc(slices.Clone(current), match)
	s.Replace(next)
	return len(current) - len(next), nil
}

// Update replaces the items sharing a key with each given item. Items whose
// key is not present are ignored.
func (s *Store[T]) Update(items ...T) error {
	if err := s.checkWritable("update"); err != nil {
		return err
	}
	if s.key == nil {
		return errors.NewError("update", s.name, errors.ErrMissingPrimaryKey)
	}

	next := slices.Clone(s.Current())
	for _, item := range items {
		want := s.key(item)
		for i := range next {
			if equal(s.key(next[i]), want) {
				next[i] = item
			}
		}
	}
	s.Replace(next)
	return nil
}

func (s *Store[T]) same(a, b T) bool {
	if s.key != nil {
		return equal(s.key(a), s.key(b))
	}
	return equal(a, b)
}

func equal(a, b any) bool {
	return cmp.Equal(a, b, cmp.Exporter(func(reflect.Type) bool { return true }))
}

func (s *Store[T]) checkWritable(op string) error {
	if s.readOnly {
		return errors.NewError(op, s.name, fmt.Errorf("%w: %s is read-only", errors.ErrReadOnlyMutationRejected, s.name))
	}
	return nil
}
