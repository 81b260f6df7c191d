package query

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/naming"
	"github.com/pay-theory/dynamock/pkg/params"
)

// extractFieldValue extracts a field value from an item, dereferencing
// pointers. found is false when the entity has no such field.
func extractFieldValue(item any, field string) (value any, found bool) {
	fv, ok := naming.FieldValue(item, field)
	if !ok {
		return nil, false
	}
	if !fv.IsValid() {
		return nil, true
	}
	for fv.Kind() == reflect.Ptr || fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, true
		}
		fv = fv.Elem()
	}
	return fv.Interface(), true
}

// extractNumericValue extracts a numeric value from an item
func extractNumericValue(item any, field string) (float64, bool, error) {
	value, found := extractFieldValue(item, field)
	if !found {
		return 0, false, fmt.Errorf("%w: %s", errors.ErrFieldNotFound, field)
	}
	if value == nil {
		return 0, false, nil
	}
	f, err := toFloat64(value)
	if err != nil {
		return 0, false, fmt.Errorf("%w: field %s is not numeric", errors.ErrInvalidOperator, field)
	}
	return f, true, nil
}

// compareValues orders two values. Nil sorts before everything else.
// Values that have no common ordering fail with ErrInvalidOperator.
func compareValues(a, b any) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}

	if c, ok := params.CompareNumbers(a, b); ok {
		return c, nil
	}

	aTime, aOk := a.(time.Time)
	bTime, bOk := b.(time.Time)
	if aOk && bOk {
		return aTime.Compare(bTime), nil
	}

	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case av.Kind() == reflect.String && bv.Kind() == reflect.String:
		return strings.Compare(av.String(), bv.String()), nil
	case av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool:
		switch {
		case av.Bool() == bv.Bool():
			return 0, nil
		case !av.Bool():
			return -1, nil
		default:
			return 1, nil
		}
	}

	return 0, fmt.Errorf("%w: cannot order %T against %T", errors.ErrInvalidOperator, a, b)
}

// toFloat64 attempts to convert a value to float64
func toFloat64(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}

// matchCondition evaluates one Where condition against an item
func matchCondition(item any, field, operator string, value any) (bool, error) {
	actual, found := extractFieldValue(item, field)
	if !found {
		return false, fmt.Errorf("%w: %s", errors.ErrFieldNotFound, field)
	}

	switch strings.ToUpper(strings.TrimSpace(operator)) {
	case "=", "EQ":
		return params.ValueEqual(value, actual), nil
	case "!=", "<>", "NE":
		return !params.ValueEqual(value, actual), nil
	case "<", "LT":
		return ordered(actual, value, func(c int) bool { return c < 0 })
	case "<=", "LE":
		return ordered(actual, value, func(c int) bool { return c <= 0 })
	case ">", "GT":
		return ordered(actual, value, func(c int) bool { return c > 0 })
	case ">=", "GE":
		return ordered(actual, value, func(c int) bool { return c >= 0 })
	case "BETWEEN":
		bounds, err := toSlice(value)
		if err != nil || len(bounds) != 2 {
			return false, fmt.Errorf("%w: BETWEEN requires two values", errors.ErrInvalidOperator)
		}
		above, err := ordered(actual, bounds[0], func(c int) bool { return c >= 0 })
		if err != nil || !above {
			return false, err
		}
		return ordered(actual, bounds[1], func(c int) bool { return c <= 0 })
	case "IN":
		candidates, err := toSlice(value)
		if err != nil {
			return false, fmt.Errorf("%w: IN requires a slice value", errors.ErrInvalidOperator)
		}
		for _, c := range candidates {
			if params.ValueEqual(c, actual) {
				return true, nil
			}
		}
		return false, nil
	case "BEGINS_WITH":
		s, ok := actual.(string)
		prefix, pok := value.(string)
		if !pok {
			return false, fmt.Errorf("%w: BEGINS_WITH requires a string value", errors.ErrInvalidOperator)
		}
		return ok && strings.HasPrefix(s, prefix), nil
	case "CONTAINS":
		return contains(actual, value), nil
	case "EXISTS":
		return !isEmpty(actual), nil
	case "NOT_EXISTS":
		return isEmpty(actual), nil
	default:
		return false, fmt.Errorf("%w: %s", errors.ErrInvalidOperator, operator)
	}
}

// ordered reports whether a present actual value satisfies test against value
func ordered(actual, value any, test func(int) bool) (bool, error) {
	if actual == nil {
		return false, nil
	}
	c, err := compareValues(actual, value)
	if err != nil {
		return false, err
	}
	return test(c), nil
}

func contains(actual, value any) bool {
	if s, ok := actual.(string); ok {
		sub, ok := value.(string)
		return ok && strings.Contains(s, sub)
	}
	items, err := toSlice(actual)
	if err != nil {
		return false
	}
	for _, item := range items {
		if params.ValueEqual(value, item) {
			return true
		}
	}
	return false
}

func toSlice(v any) ([]any, error) {
	if v == nil {
		return nil, fmt.Errorf("nil is not a slice")
	}
	if items, ok := v.([]any); ok {
		return items, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		out := make([]any, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out = append(out, iter.Key().Interface())
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a slice", v)
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
