// Package query evaluates collection queries for the in-memory double.
//
// A Query is built from chained standard operators and, optionally, a raw
// source. Building a query never evaluates it. Each terminal operator turns
// the query into an Operation and hands it to the collection's Provider,
// which reads the current snapshot at that moment.
//
//	q := provider.Query().
//	    Where("Status", "=", "active").
//	    OrderBy("CreatedAt", "DESC").
//	    Limit(10)
//	items, err := q.All(ctx)
//
// Builder methods return a new Query, so a base query can be reused.
package query

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/pay-theory/dynamock/pkg/asyncseq"
	"github.com/pay-theory/dynamock/pkg/core"
)

// Query represents a chainable in-memory query
type Query[T any] struct {
	provider *Provider[T]
	raw      *RawCommand
	steps    []Step[T]
}

// Query starts a standard query over the provider's collection
func (p *Provider[T]) Query() *Query[T] {
	return &Query[T]{provider: p}
}

// FromRaw starts a query whose source is a raw invocation resolved against
// the collection's registered expectations
func (p *Provider[T]) FromRaw(text string, params ...core.Param) *Query[T] {
	return &Query[T]{
		provider: p,
		raw:      &RawCommand{Text: text, Params: slices.Clone(params)},
	}
}

func (q *Query[T]) with(s Step[T]) *Query[T] {
	next := *q
	next.steps = append(slices.Clip(q.steps), s)
	return &next
}

// Where adds a condition to the query
func (q *Query[T]) Where(field string, op string, value any) *Query[T] {
	return q.with(Step[T]{kind: stepWhere, field: field, operator: op, value: value})
}

// WhereFunc filters with a Go predicate. A real provider cannot translate
// it, so it is rejected unless client evaluation is allowed.
func (q *Query[T]) WhereFunc(pred func(T) bool) *Query[T] {
	return q.with(Step[T]{kind: stepWhereFunc, pred: pred})
}

// OrderBy sets the primary sort key. order is "ASC" or "DESC".
func (q *Query[T]) OrderBy(field string, order string) *Query[T] {
	return q.with(Step[T]{kind: stepOrderBy, field: field, desc: isDesc(order)})
}

// ThenBy adds a secondary sort key to the preceding OrderBy
func (q *Query[T]) ThenBy(field string, order string) *Query[T] {
	return q.with(Step[T]{kind: stepThenBy, field: field, desc: isDesc(order)})
}

// OrderByFunc sorts with a Go comparison. Like WhereFunc it requires client
// evaluation.
func (q *Query[T]) OrderByFunc(compare func(a, b T) int) *Query[T] {
	return q.with(Step[T]{kind: stepOrderByFunc, compare: compare})
}

// Limit sets the maximum number of items to return
func (q *Query[T]) Limit(limit int) *Query[T] {
	return q.with(Step[T]{kind: stepLimit, n: limit})
}

// Offset skips the first offset items
func (q *Query[T]) Offset(offset int) *Query[T] {
	return q.with(Step[T]{kind: stepOffset, n: offset})
}

// Distinct removes structurally equal duplicates, keeping the first
func (q *Query[T]) Distinct() *Query[T] {
	return q.with(Step[T]{kind: stepDistinct})
}

// Operation returns the operation this query evaluates to
func (q *Query[T]) Operation() Operation[T] {
	steps := slices.Clone(q.steps)
	if q.raw != nil {
		return RawQuery[T]{Text: q.raw.Text, Params: q.raw.Params, Steps: steps}
	}
	return StandardQuery[T]{Steps: steps}
}

// All retrieves all matching items
func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	return q.provider.Evaluate(ctx, q.Operation())
}

// AllAsync returns a sequence that evaluates the query when enumerated
func (q *Query[T]) AllAsync(ctx context.Context) *asyncseq.Seq[T] {
	return q.provider.EvaluateAsync(ctx, q.Operation())
}

// First retrieves the first matching item
func (q *Query[T]) First(ctx context.Context) (T, error) {
	return scalarAs[T](ctx, q, ScalarAggregate[T]{Func: AggFirst})
}

// FirstOrDefault retrieves the first matching item or the zero value
func (q *Query[T]) FirstOrDefault(ctx context.Context) (T, error) {
	return scalarAs[T](ctx, q, ScalarAggregate[T]{Func: AggFirstOrDefault})
}

// Last retrieves the last matching item. The query must be ordered.
func (q *Query[T]) Last(ctx context.Context) (T, error) {
	return scalarAs[T](ctx, q, ScalarAggregate[T]{Func: AggLast})
}

// Single retrieves the only matching item
func (q *Query[T]) Single(ctx context.Context) (T, error) {
	return scalarAs[T](ctx, q, ScalarAggregate[T]{Func: AggSingle})
}

// ElementAt retrieves the item at index. Positional access cannot be
// translated by a real provider and always fails.
func (q *Query[T]) ElementAt(ctx context.Context, index int) (T, error) {
	return scalarAs[T](ctx, q, ScalarAggregate[T]{Func: AggElementAt, Index: index})
}

// Count returns the number of matching items
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	return scalarAs[int64](ctx, q, ScalarAggregate[T]{Func: AggCount})
}

// Any reports whether any item matches
func (q *Query[T]) Any(ctx context.Context) (bool, error) {
	return scalarAs[bool](ctx, q, ScalarAggregate[T]{Func: AggAny})
}

// Sum calculates the sum of a numeric field
func (q *Query[T]) Sum(ctx context.Context, field string) (float64, error) {
	return scalarAs[float64](ctx, q, ScalarAggregate[T]{Func: AggSum, Field: field})
}

// Average calculates the average of a numeric field
func (q *Query[T]) Average(ctx context.Context, field string) (float64, error) {
	return scalarAs[float64](ctx, q, ScalarAggregate[T]{Func: AggAverage, Field: field})
}

// Min finds the minimum value of a field
func (q *Query[T]) Min(ctx context.Context, field string) (any, error) {
	return q.provider.EvaluateScalar(ctx, ScalarAggregate[T]{Source: q.Operation(), Func: AggMin, Field: field})
}

// Max finds the maximum value of a field
func (q *Query[T]) Max(ctx context.Context, field string) (any, error) {
	return q.provider.EvaluateScalar(ctx, ScalarAggregate[T]{Source: q.Operation(), Func: AggMax, Field: field})
}

// GroupBy groups matching items by a field
func (q *Query[T]) GroupBy(ctx context.Context, field string) ([]*Group[T], error) {
	items, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	return groupBy(items, field)
}

// Project evaluates q and maps every item with fn on the client
func Project[T, R any](ctx context.Context, q *Query[T], fn func(T) R) ([]R, error) {
	if err := q.provider.CheckProjection(); err != nil {
		return nil, err
	}
	items, err := q.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out, nil
}

// OrderByKey sorts by a Go key selector. It requires client evaluation.
func OrderByKey[T any, K cmp.Ordered](q *Query[T], key func(T) K) *Query[T] {
	return q.OrderByFunc(orderFunc(key))
}

func scalarAs[R, T any](ctx context.Context, q *Query[T], agg ScalarAggregate[T]) (R, error) {
	agg.Source = q.Operation()
	value, err := q.provider.EvaluateScalar(ctx, agg)
	if err != nil {
		var zero R
		return zero, err
	}
	result, _ := value.(R)
	return result, nil
}

func isDesc(order string) bool {
	return strings.EqualFold(strings.TrimSpace(order), "DESC")
}
