// Package attrconv converts between Go values and DynamoDB AttributeValues
package attrconv

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/pay-theory/dynamock/pkg/naming"
)

// ToAttributeValue converts a Go value to a DynamoDB AttributeValue
func ToAttributeValue(value any) (types.AttributeValue, error) {
	if value == nil {
		return &types.AttributeValueMemberNULL{Value: true}, nil
	}

	if av, ok := value.(types.AttributeValue); ok {
		return av, nil
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.String:
		return &types.AttributeValueMemberS{Value: v.String()}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(v.Int(), 10)}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &types.AttributeValueMemberN{Value: strconv.FormatUint(v.Uint(), 10)}, nil

	case reflect.Float32, reflect.Float64:
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(v.Float(), 'g', -1, 64)}, nil

	case reflect.Bool:
		return &types.AttributeValueMemberBOOL{Value: v.Bool()}, nil

	case reflect.Slice, reflect.Array:
		// Handle []byte as binary
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return &types.AttributeValueMemberB{Value: v.Bytes()}, nil
		}

		// Handle other slices as lists
		list := make([]types.AttributeValue, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := ToAttributeValue(v.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			list[i] = item
		}
		return &types.AttributeValueMemberL{Value: list}, nil

	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			m := make(map[string]types.AttributeValue, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				val, err := ToAttributeValue(iter.Value().Interface())
				if err != nil {
					return nil, err
				}
				m[iter.Key().String()] = val
			}
			return &types.AttributeValueMemberM{Value: m}, nil
		}
		return nil, fmt.Errorf("unsupported map type: %v", v.Type())

	case reflect.Struct:
		if t, ok := value.(time.Time); ok {
			return &types.AttributeValueMemberS{Value: t.Format(time.RFC3339Nano)}, nil
		}
		m, err := MarshalItem(value)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil

	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return &types.AttributeValueMemberNULL{Value: true}, nil
		}
		return ToAttributeValue(v.Elem().Interface())

	default:
		return nil, fmt.Errorf("unsupported type: %v", v.Type())
	}
}

// MarshalItem converts a struct (or string-keyed map) to an item. Struct
// fields are named by their resolved attribute names.
func MarshalItem(item any) (map[string]types.AttributeValue, error) {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot marshal nil pointer")
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		av, err := ToAttributeValue(v.Interface())
		if err != nil {
			return nil, err
		}
		return av.(*types.AttributeValueMemberM).Value, nil
	case reflect.Struct:
	default:
		return nil, fmt.Errorf("item must be a struct or map, got %v", v.Type())
	}

	out := make(map[string]types.AttributeValue)
	for _, f := range reflect.VisibleFields(v.Type()) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name, skip := naming.ResolveAttrName(f)
		if skip {
			continue
		}
		fv, err := v.FieldByIndexErr(f.Index)
		if err != nil {
			continue
		}
		av, err := ToAttributeValue(fv.Interface())
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		out[name] = av
	}
	return out, nil
}

// FromAttributeValue converts a DynamoDB AttributeValue to a plain Go value.
// Numbers become int64 when integral and float64 otherwise.
func FromAttributeValue(av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case nil:
		return nil, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return parseNumber(v.Value)
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberB:
		return v.Value, nil
	case *types.AttributeValueMemberSS:
		return append([]string(nil), v.Value...), nil
	case *types.AttributeValueMemberNS:
		out := make([]any, len(v.Value))
		for i, n := range v.Value {
			num, err := parseNumber(n)
			if err != nil {
				return nil, err
			}
			out[i] = num
		}
		return out, nil
	case *types.AttributeValueMemberBS:
		return append([][]byte(nil), v.Value...), nil
	case *types.AttributeValueMemberL:
		out := make([]any, len(v.Value))
		for i, item := range v.Value {
			val, err := FromAttributeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = val
		}
		return out, nil
	case *types.AttributeValueMemberM:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			val, err := FromAttributeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported attribute value type %T", av)
	}
}

func parseNumber(s string) (any, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return f, nil
}
