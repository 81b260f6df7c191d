// Package params implements ordered-subsequence matching of raw invocation
// parameters.
//
// A registered parameter list does not have to equal the invocation list.
// Every registered parameter must appear in the invocation list, in the same
// relative order, and any extra invocation parameters are ignored:
//
//	registered := []core.Param{params.New("id", 42)}
//	invocation := []core.Param{params.New("tenant", "t1"), params.New("ID", 42)}
//	params.Match(registered, invocation) // true
//
// A registered value created with AnyOf matches any invocation value of the
// given type.
package params

import (
	"cmp"
	"reflect"
	"strings"

	gocmp "github.com/google/go-cmp/cmp"

	"github.com/pay-theory/dynamock/pkg/core"
)

// Placeholder stands in for a registered value when only its type matters
type Placeholder struct {
	Type reflect.Type
}

// New builds a parameter
func New(name string, value any) core.Param {
	return core.Param{Name: name, Value: value}
}

// AnyOf returns a placeholder value that matches any invocation value of type T
func AnyOf[T any]() Placeholder {
	return Placeholder{Type: reflect.TypeFor[T]()}
}

// Any builds a parameter named name whose value matches anything of type T
func Any[T any](name string) core.Param {
	return core.Param{Name: name, Value: AnyOf[T]()}
}

// Matcher decides whether an invocation parameter list is acceptable
type Matcher func(invocation []core.Param) bool

// Subsequence returns a Matcher requiring registered to be an ordered
// subsequence of the invocation parameters
func Subsequence(registered ...core.Param) Matcher {
	regs := append([]core.Param(nil), registered...)
	return func(invocation []core.Param) bool {
		return Match(regs, invocation)
	}
}

// Match reports whether registered is an ordered subsequence of invocation
func Match(registered, invocation []core.Param) bool {
	if len(registered) == 0 {
		return true
	}

	i := 0
	for j := 0; j < len(invocation) && i < len(registered); j++ {
		if Equal(registered[i], invocation[j]) {
			i++
		}
	}
	return i == len(registered)
}

// Equal compares a registered parameter with an invocation parameter
func Equal(registered, invocation core.Param) bool {
	if !strings.EqualFold(registered.Name, invocation.Name) {
		return false
	}
	return ValueEqual(registered.Value, invocation.Value)
}

// ValueEqual compares a registered value with an invocation value
func ValueEqual(registered, invocation any) bool {
	if ph, ok := registered.(Placeholder); ok {
		return ph.matches(invocation)
	}

	if isNil(registered) || isNil(invocation) {
		return isNil(registered) && isNil(invocation)
	}

	if c, ok := CompareNumbers(registered, invocation); ok {
		return c == 0
	}

	return gocmp.Equal(registered, invocation, gocmp.Exporter(func(reflect.Type) bool { return true }))
}

func (p Placeholder) matches(value any) bool {
	if p.Type == nil {
		return true
	}
	if value == nil {
		switch p.Type.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return true
		}
		return false
	}
	vt := reflect.TypeOf(value)
	if p.Type.Kind() == reflect.Interface {
		return vt.Implements(p.Type)
	}
	return vt == p.Type
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// CompareNumbers orders two numbers of any Go numeric kind. Integers are
// compared exactly, including int against uint; a float on either side
// compares as float64. ok is false when either value is not a number.
func CompareNumbers(a, b any) (int, bool) {
	na, ok := numberOf(a)
	if !ok {
		return 0, false
	}
	nb, ok := numberOf(b)
	if !ok {
		return 0, false
	}
	return na.compare(nb), true
}

type numberKind int

const (
	signed numberKind = iota
	unsigned
	float
)

type number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

func numberOf(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: signed, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return number{kind: unsigned, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: float, f: rv.Float()}, true
	default:
		return number{}, false
	}
}

func (n number) asFloat() float64 {
	switch n.kind {
	case signed:
		return float64(n.i)
	case unsigned:
		return float64(n.u)
	default:
		return n.f
	}
}

func (n number) compare(o number) int {
	switch {
	case n.kind == float || o.kind == float:
		return cmp.Compare(n.asFloat(), o.asFloat())
	case n.kind == signed && o.kind == signed:
		return cmp.Compare(n.i, o.i)
	case n.kind == unsigned && o.kind == unsigned:
		return cmp.Compare(n.u, o.u)
	case n.kind == signed:
		if n.i < 0 {
			return -1
		}
		return cmp.Compare(uint64(n.i), o.u)
	default:
		return -o.compare(n)
	}
}
