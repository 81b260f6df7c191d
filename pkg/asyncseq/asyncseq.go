// Package asyncseq adapts a synchronous, restartable source to the
// enumerator shape used by asynchronous call sites.
//
// No goroutines are started. MoveNext never suspends and the context passed
// to it is accepted but not consulted, so an enumeration always runs to
// completion.
package asyncseq

import (
	"context"
	"iter"
)

// Source produces the full sequence. It is called once per enumerator.
type Source[T any] func(ctx context.Context) ([]T, error)

// Seq is a restartable sequence
type Seq[T any] struct {
	source Source[T]
}

// New wraps source
func New[T any](source Source[T]) *Seq[T] {
	return &Seq[T]{source: source}
}

// FromSlice wraps a fixed slice
func FromSlice[T any](items []T) *Seq[T] {
	return New(func(context.Context) ([]T, error) {
		return items, nil
	})
}

// Enumerator returns a fresh enumerator positioned before the first element
func (s *Seq[T]) Enumerator(ctx context.Context) *Enumerator[T] {
	return &Enumerator[T]{source: s.source, idx: -1}
}

// All returns an iterator over the sequence. A source error is yielded once
// with the zero value and ends the iteration.
func (s *Seq[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		e := s.Enumerator(ctx)
		for {
			ok, err := e.MoveNext(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok {
				return
			}
			if !yield(e.Current(), nil) {
				return
			}
		}
	}
}

// ToSlice drains a fresh enumerator
func (s *Seq[T]) ToSlice(ctx context.Context) ([]T, error) {
	var out []T
	for item, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// ForEach calls fn for every element, stopping at the first error
func (s *Seq[T]) ForEach(ctx context.Context, fn func(T) error) error {
	for item, err := range s.All(ctx) {
		if err != nil {
			return err
		}
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

// Enumerator walks one pass over a sequence
type Enumerator[T any] struct {
	source Source[T]
	items  []T
	loaded bool
	idx    int
}

// MoveNext advances to the next element. The source is evaluated on the
// first call.
func (e *Enumerator[T]) MoveNext(ctx context.Context) (bool, error) {
	if !e.loaded {
		items, err := e.source(ctx)
		if err != nil {
			return false, err
		}
		e.items = items
		e.loaded = true
	}
	if e.idx+1 >= len(e.items) {
		e.idx = len(e.items)
		return false, nil
	}
	e.idx++
	return true, nil
}

// Current returns the element at the current position, or the zero value
// before the first MoveNext and after the end
func (e *Enumerator[T]) Current() T {
	if e.idx < 0 || e.idx >= len(e.items) {
		var zero T
		return zero
	}
	return e.items[e.idx]
}

// Close releases the enumerator
func (e *Enumerator[T]) Close() error {
	e.items = nil
	e.idx = -1
	e.loaded = false
	return nil
}
