package query

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	gocmp "github.com/google/go-cmp/cmp"

	"github.com/pay-theory/dynamock/pkg/errors"
)

// apply runs steps over source. The source slice is never modified.
func (p *Provider[T]) apply(source []T, steps []Step[T]) ([]T, error) {
	items := slices.Clone(source)
	if items == nil {
		items = []T{}
	}

	var ordering []Step[T]
	flush := func() error {
		if len(ordering) == 0 {
			return nil
		}
		err := sortItems(items, ordering)
		ordering = nil
		return err
	}

	for _, s := range steps {
		if s.ordering() {
			if s.kind != stepThenBy {
				if err := flush(); err != nil {
					return nil, errors.NewError("OrderBy", p.store.Name(), err)
				}
			}
			ordering = append(ordering, s)
			continue
		}
		if err := flush(); err != nil {
			return nil, errors.NewError("OrderBy", p.store.Name(), err)
		}

		var err error
		switch s.kind {
		case stepWhere:
			items, err = filter(items, func(item T) (bool, error) {
				return matchCondition(item, s.field, s.operator, s.value)
			})
		case stepWhereFunc:
			items, err = filter(items, func(item T) (bool, error) {
				return s.pred(item), nil
			})
		case stepLimit:
			if s.n >= 0 && s.n < len(items) {
				items = items[:s.n]
			}
		case stepOffset:
			items = items[min(max(s.n, 0), len(items)):]
		case stepDistinct:
			items = distinct(items)
		default:
			err = fmt.Errorf("%w: %s", errors.ErrUnsupportedOperation, s)
		}
		if err != nil {
			return nil, errors.NewError(s.kind.String(), p.store.Name(), err)
		}
	}

	if err := flush(); err != nil {
		return nil, errors.NewError("OrderBy", p.store.Name(), err)
	}
	return slices.Clip(items), nil
}

func filter[T any](items []T, keep func(T) (bool, error)) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := keep(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// sortItems stably sorts items by the given OrderBy/ThenBy keys
func sortItems[T any](items []T, keys []Step[T]) error {
	for _, k := range keys {
		if k.kind == stepOrderByFunc || len(items) == 0 {
			continue
		}
		if _, found := extractFieldValue(items[0], k.field); !found {
			return fmt.Errorf("%w: %s", errors.ErrFieldNotFound, k.field)
		}
	}

	var sortErr error
	slices.SortStableFunc(items, func(a, b T) int {
		for _, k := range keys {
			var c int
			if k.kind == stepOrderByFunc {
				c = k.compare(a, b)
			} else {
				av, _ := extractFieldValue(a, k.field)
				bv, _ := extractFieldValue(b, k.field)
				var err error
				if c, err = compareValues(av, bv); err != nil && sortErr == nil {
					sortErr = err
				}
			}
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return sortErr
}

func distinct[T any](items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		dup := slices.ContainsFunc(out, func(seen T) bool {
			return gocmp.Equal(seen, item, gocmp.Exporter(func(reflect.Type) bool { return true }))
		})
		if !dup {
			out = append(out, item)
		}
	}
	return out
}

// aggregate applies a terminal operator to evaluated items
func aggregate[T any](items []T, agg ScalarAggregate[T]) (any, error) {
	switch agg.Func {
	case AggCount:
		return int64(len(items)), nil
	case AggAny:
		return len(items) > 0, nil
	case AggFirst:
		if len(items) == 0 {
			return nil, errors.ErrNoElements
		}
		return items[0], nil
	case AggFirstOrDefault:
		if len(items) == 0 {
			var zero T
			return zero, nil
		}
		return items[0], nil
	case AggLast:
		if len(items) == 0 {
			return nil, errors.ErrNoElements
		}
		return items[len(items)-1], nil
	case AggSingle:
		switch len(items) {
		case 0:
			return nil, errors.ErrNoElements
		case 1:
			return items[0], nil
		default:
			return nil, errors.ErrMoreThanOneElement
		}
	case AggSum:
		return sum(items, agg.Field)
	case AggAverage:
		return average(items, agg.Field)
	case AggMin:
		return extreme(items, agg.Field, -1)
	case AggMax:
		return extreme(items, agg.Field, 1)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedOperation, agg.Func)
	}
}

// orderFunc adapts a key selector to an ordering comparison
func orderFunc[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}
