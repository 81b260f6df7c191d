package dynamock

import (
	"context"
	"io"
	"slices"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/fixtures"
	"github.com/pay-theory/dynamock/pkg/params"
	"github.com/pay-theory/dynamock/pkg/query"
	"github.com/pay-theory/dynamock/pkg/raw"
	"github.com/pay-theory/dynamock/pkg/snapshot"
)

// Set is a handle to one entity collection. It holds no snapshot of its
// own, so every query issued through it sees the collection's current
// contents.
type Set[T any] struct {
	name     string
	store    *snapshot.Store[T]
	raw      *raw.Registry[[]T]
	provider *query.Provider[T]
}

type rawQuerier interface {
	queryRaw(ctx context.Context, text string, params []core.Param) ([]any, error)
}

func newSet[T any](c *Context, name string, m Model[T]) *Set[T] {
	opts := []snapshot.Option[T]{snapshot.WithName[T](name)}
	if m.Key != nil {
		opts = append(opts, snapshot.WithKey(snapshot.KeyFunc[T](m.Key)))
	}

	var store *snapshot.Store[T]
	if m.ReadOnly {
		store = snapshot.NewReadOnly(m.Seed, opts...)
	} else {
		store = snapshot.New(m.Seed, opts...)
	}

	rawQueries := raw.NewRegistry[[]T](name, c.logger)
	return &Set[T]{
		name:  name,
		store: store,
		raw:   rawQueries,
		provider: query.NewProvider(store, rawQueries, query.Options{
			Logger:                 c.logger,
			RejectClientEvaluation: c.config.RejectClientEvaluation,
			Commands:               c.commands,
		}),
	}
}

// Name returns the collection name
func (s *Set[T]) Name() string {
	return s.name
}

// ReadOnly reports whether tracked writes are rejected
func (s *Set[T]) ReadOnly() bool {
	return s.store.ReadOnly()
}

// Provider returns the query provider for this collection
func (s *Set[T]) Provider() *query.Provider[T] {
	return s.provider
}

// Query starts a standard query
func (s *Set[T]) Query() *query.Query[T] {
	return s.provider.Query()
}

// Where starts a standard query with a condition
func (s *Set[T]) Where(field string, op string, value any) *query.Query[T] {
	return s.provider.Query().Where(field, op, value)
}

// FromRaw starts a query sourced from a raw invocation
func (s *Set[T]) FromRaw(text string, params ...core.Param) *query.Query[T] {
	return s.provider.FromRaw(text, params...)
}

// All returns the current contents
func (s *Set[T]) All(ctx context.Context) ([]T, error) {
	return s.provider.Query().All(ctx)
}

// Count returns the number of items
func (s *Set[T]) Count(ctx context.Context) (int64, error) {
	return s.provider.Query().Count(ctx)
}

// Any reports whether the collection has items
func (s *Set[T]) Any(ctx context.Context) (bool, error) {
	return s.provider.Query().Any(ctx)
}

// Add adds one item
func (s *Set[T]) Add(item T) error {
	return s.store.Add(item)
}

// AddRange adds items in order
func (s *Set[T]) AddRange(items ...T) error {
	return s.store.AddRange(items...)
}

// Remove removes one item
func (s *Set[T]) Remove(item T) error {
	return s.store.Remove(item)
}

// RemoveRange removes items
func (s *Set[T]) RemoveRange(items ...T) error {
	return s.store.RemoveRange(items...)
}

// Update replaces items sharing a key with the given ones
func (s *Set[T]) Update(items ...T) error {
	return s.store.Update(items...)
}

// Seed stages fixture items. It works on read-only collections too.
func (s *Set[T]) Seed(items ...T) {
	s.store.Seed(items...)
}

// SeedYAML stages fixture items decoded from a YAML sequence
func (s *Set[T]) SeedYAML(r io.Reader) error {
	items, err := fixtures.Decode[T](r)
	if err != nil {
		return err
	}
	s.store.Seed(items...)
	return nil
}

// SeedFile stages fixture items from a YAML file
func (s *Set[T]) SeedFile(path string) error {
	items, err := fixtures.Load[T](path)
	if err != nil {
		return err
	}
	s.store.Seed(items...)
	return nil
}

// Clear removes every item. It works on read-only collections too.
func (s *Set[T]) Clear() {
	s.store.Clear()
}

// ExpectRaw starts a raw query expectation for text containing fragment
// and carrying params as an ordered subsequence
func (s *Set[T]) ExpectRaw(fragment string, params ...core.Param) *RawExpectation[T] {
	return &RawExpectation[T]{
		registry: s.raw,
		fragment: fragment,
		params:   slices.Clone(params),
	}
}

// RawExpectations returns the registered raw query expectations
func (s *Set[T]) RawExpectations() []*raw.Expectation[[]T] {
	return s.raw.Expectations()
}

func (s *Set[T]) queryRaw(ctx context.Context, text string, params []core.Param) ([]any, error) {
	items, err := s.provider.FromRaw(text, params...).All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out, nil
}

// RawExpectation builds a raw query expectation
type RawExpectation[T any] struct {
	registry *raw.Registry[[]T]
	fragment string
	text     raw.TextMatcher
	params   []core.Param
	callback raw.Callback
}

// Matching replaces the fragment match with a custom text matcher such as
// raw.Regexp or raw.Exact
func (e *RawExpectation[T]) Matching(text raw.TextMatcher) *RawExpectation[T] {
	e.text = text
	return e
}

// Do runs fn with the actual invocation each time the expectation matches
func (e *RawExpectation[T]) Do(fn raw.Callback) *RawExpectation[T] {
	e.callback = fn
	return e
}

// Returns registers the expectation. A nil result is rejected.
func (e *RawExpectation[T]) Returns(items []T) (*raw.Expectation[[]T], error) {
	if e.text != nil {
		return e.registry.Register(e.text, params.Subsequence(e.params...), items, e.callback)
	}
	return e.registry.Expect(e.fragment, e.params, items, e.callback)
}

// CommandExpectation builds a raw command expectation
type CommandExpectation struct {
	registry *raw.Registry[int64]
	fragment string
	text     raw.TextMatcher
	params   []core.Param
	callback raw.Callback
}

// Matching replaces the fragment match with a custom text matcher
func (e *CommandExpectation) Matching(text raw.TextMatcher) *CommandExpectation {
	e.text = text
	return e
}

// Do runs fn with the actual invocation each time the expectation matches
func (e *CommandExpectation) Do(fn raw.Callback) *CommandExpectation {
	e.callback = fn
	return e
}

// Returns registers the expectation with the affected-row count
func (e *CommandExpectation) Returns(rows int64) (*raw.Expectation[int64], error) {
	if e.text != nil {
		return e.registry.Register(e.text, params.Subsequence(e.params...), rows, e.callback)
	}
	return e.registry.Expect(e.fragment, e.params, rows, e.callback)
}
