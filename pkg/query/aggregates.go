package query

import (
	"fmt"

	"github.com/pay-theory/dynamock/pkg/errors"
)

// Group holds the items sharing one key
type Group[T any] struct {
	Key   any
	Count int64
	Items []T
}

// sum calculates the sum of a numeric field. Nil values are skipped.
func sum[T any](items []T, field string) (float64, error) {
	total := 0.0
	for _, item := range items {
		value, ok, err := extractNumericValue(item, field)
		if err != nil {
			return 0, err
		}
		if ok {
			total += value
		}
	}
	return total, nil
}

// average calculates the average of a numeric field. Nil values are skipped.
func average[T any](items []T, field string) (float64, error) {
	total := 0.0
	count := 0
	for _, item := range items {
		value, ok, err := extractNumericValue(item, field)
		if err != nil {
			return 0, err
		}
		if ok {
			total += value
			count++
		}
	}

	if count == 0 {
		return 0, errors.ErrNoElements
	}
	return total / float64(count), nil
}

// extreme finds the minimum (sign -1) or maximum (sign 1) value of a field
func extreme[T any](items []T, field string, sign int) (any, error) {
	var best any
	first := true

	for _, item := range items {
		value, found := extractFieldValue(item, field)
		if !found {
			return nil, fmt.Errorf("%w: %s", errors.ErrFieldNotFound, field)
		}
		if value == nil {
			continue
		}

		if first {
			best = value
			first = false
			continue
		}

		c, err := compareValues(value, best)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		if c*sign > 0 {
			best = value
		}
	}

	if first {
		return nil, errors.ErrNoElements
	}
	return best, nil
}

// groupBy groups items by a field, in order of first appearance
func groupBy[T any](items []T, field string) ([]*Group[T], error) {
	var groups []*Group[T]
	index := make(map[string]*Group[T])

	for _, item := range items {
		key, found := extractFieldValue(item, field)
		if !found {
			return nil, fmt.Errorf("%w: %s", errors.ErrFieldNotFound, field)
		}

		keyStr := fmt.Sprintf("%T:%v", key, key)
		if group, exists := index[keyStr]; exists {
			group.Count++
			group.Items = append(group.Items, item)
			continue
		}

		group := &Group[T]{Key: key, Count: 1, Items: []T{item}}
		index[keyStr] = group
		groups = append(groups, group)
	}

	return groups, nil
}
