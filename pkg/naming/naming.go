// Package naming resolves query field names against entity struct fields.
//
// A field can be addressed by its Go name (case-insensitive), by the
// attribute name set with a `dynamock:"attr:name"` tag, or by its default
// camelCase attribute name.
package naming

import (
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// TagName is the struct tag consulted for attribute names
const TagName = "dynamock"

type fieldKey struct {
	typ  reflect.Type
	name string
}

var fieldCache sync.Map // map[fieldKey][]int

// ResolveAttrName determines the attribute name for a field.
// It returns the attribute name and a bool indicating whether the field should be skipped.
func ResolveAttrName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get(TagName)
	if tag == "-" {
		return "", true
	}

	if attr := attrFromTag(tag); attr != "" {
		return attr, false
	}

	return DefaultAttrName(field.Name), false
}

// DefaultAttrName converts a Go struct field name to the preferred camelCase attribute name.
func DefaultAttrName(name string) string {
	if name == "" {
		return ""
	}

	if name == "PK" || name == "SK" {
		return name
	}

	runes := []rune(name)
	if len(runes) == 1 {
		return strings.ToLower(name)
	}

	boundary := 1
	for boundary < len(runes) {
		if !unicode.IsUpper(runes[boundary]) {
			break
		}

		if boundary+1 < len(runes) && !unicode.IsUpper(runes[boundary+1]) {
			break
		}

		boundary++
	}

	prefix := strings.ToLower(string(runes[:boundary]))
	return prefix + string(runes[boundary:])
}

// FieldIndex finds the index path of the field addressed by name in struct
// type t. Pointer types are dereferenced.
func FieldIndex(t reflect.Type, name string) ([]int, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || name == "" {
		return nil, false
	}

	key := fieldKey{typ: t, name: name}
	if cached, ok := fieldCache.Load(key); ok {
		idx := cached.([]int)
		return idx, idx != nil
	}

	idx := lookup(t, name)
	fieldCache.Store(key, idx)
	return idx, idx != nil
}

// FieldValue returns the value of the field addressed by name. A dotted
// name such as "Address.City" walks nested structs and string-keyed maps
// when no field carries the whole name. ok is false when a field doesn't
// exist. A nil pointer, interface or map part way along a path yields an
// invalid Value with ok true, since the path itself is well formed.
func FieldValue(item any, name string) (reflect.Value, bool) {
	root := reflect.ValueOf(item)
	if fv, ok := fieldValue(root, name); ok || !strings.Contains(name, ".") {
		return fv, ok
	}

	v := root
	for i, part := range strings.Split(name, ".") {
		if i > 0 && isNilValue(v) {
			return reflect.Value{}, true
		}
		fv, ok := fieldValue(v, part)
		if !ok {
			return reflect.Value{}, false
		}
		v = fv
	}
	return v, true
}

func fieldValue(v reflect.Value, name string) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Map {
		return mapValue(v, name)
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	idx, ok := FieldIndex(v.Type(), name)
	if !ok {
		return reflect.Value{}, false
	}
	fv, err := v.FieldByIndexErr(idx)
	if err != nil {
		return reflect.Value{}, false
	}
	return fv, true
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
			return isNilValue(v.Elem())
		}
	case reflect.Invalid:
		return true
	}
	return false
}

func lookup(t reflect.Type, name string) []int {
	var byGoName, byAttr []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		attr, skip := ResolveAttrName(f)
		if skip {
			continue
		}
		if f.Name == name || attr == name {
			return f.Index
		}
		if byGoName == nil && strings.EqualFold(f.Name, name) {
			byGoName = f.Index
		}
		if byAttr == nil && strings.EqualFold(attr, name) {
			byAttr = f.Index
		}
	}
	if byGoName != nil {
		return byGoName
	}
	return byAttr
}

func mapValue(m reflect.Value, name string) (reflect.Value, bool) {
	if m.Type().Key().Kind() != reflect.String {
		return reflect.Value{}, false
	}
	if v := m.MapIndex(reflect.ValueOf(name).Convert(m.Type().Key())); v.IsValid() {
		return v, true
	}
	iter := m.MapRange()
	for iter.Next() {
		if strings.EqualFold(iter.Key().String(), name) {
			return iter.Value(), true
		}
	}
	return reflect.Value{}, false
}

func attrFromTag(tag string) string {
	if tag == "" {
		return ""
	}

	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "attr:") {
			return strings.TrimPrefix(part, "attr:")
		}
	}
	return ""
}
