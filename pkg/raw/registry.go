// Package raw resolves raw invocations, a free-text command plus an ordered
// parameter list, against registered expectations.
//
// Text is matched by case-insensitive containment and parameters by ordered
// subsequence. When several expectations match, the one registered last
// wins.
package raw

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/params"
)

// TextMatcher decides whether an invocation text is acceptable
type TextMatcher func(text string) bool

// Callback observes a resolved invocation before its result is returned
type Callback func(text string, params []core.Param)

// Contains returns a TextMatcher accepting any text that contains fragment,
// ignoring case. An empty fragment accepts everything.
func Contains(fragment string) TextMatcher {
	needle := strings.ToLower(fragment)
	return func(text string) bool {
		return strings.Contains(strings.ToLower(text), needle)
	}
}

// Expectation is a registered raw invocation and its result
type Expectation[R any] struct {
	ID          uuid.UUID
	Description string

	text     TextMatcher
	params   params.Matcher
	result   R
	callback Callback
	calls    int
}

// Calls returns how many invocations this expectation resolved
func (e *Expectation[R]) Calls() int {
	return e.calls
}

// Result returns the registered result
func (e *Expectation[R]) Result() R {
	return e.result
}

// Registry stores expectations for one collection or context
type Registry[R any] struct {
	name         string
	logger       *zap.Logger
	expectations []*Expectation[R]
}

// NewRegistry creates an empty registry. name identifies the registry in
// errors and logs.
func NewRegistry[R any](name string, logger *zap.Logger) *Registry[R] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry[R]{
		name:   name,
		logger: logger.With(zap.String("registry", name)),
	}
}

// Name returns the registry name
func (r *Registry[R]) Name() string {
	return r.name
}

// Register adds an expectation. Nil matchers or a nil result are rejected.
func (r *Registry[R]) Register(text TextMatcher, paramMatcher params.Matcher, result R, callback Callback) (*Expectation[R], error) {
	return r.register("", text, paramMatcher, result, callback)
}

// Expect registers an expectation matching text containing fragment and
// parameters containing registered as an ordered subsequence
func (r *Registry[R]) Expect(fragment string, registered []core.Param, result R, callback Callback) (*Expectation[R], error) {
	if registered == nil {
		registered = []core.Param{}
	}
	return r.register(describe(fragment, registered), Contains(fragment), params.Subsequence(registered...), result, callback)
}

func (r *Registry[R]) register(desc string, text TextMatcher, paramMatcher params.Matcher, result R, callback Callback) (*Expectation[R], error) {
	switch {
	case text == nil:
		return nil, errors.NewError("register", r.name, fmt.Errorf("%w: text matcher is nil", errors.ErrInvalidRegistration))
	case paramMatcher == nil:
		return nil, errors.NewError("register", r.name, fmt.Errorf("%w: parameter matcher is nil", errors.ErrInvalidRegistration))
	case isNilResult(result):
		return nil, errors.NewError("register", r.name, fmt.Errorf("%w: result is nil", errors.ErrInvalidRegistration))
	}

	exp := &Expectation[R]{
		ID:          uuid.New(),
		Description: desc,
		text:        text,
		params:      paramMatcher,
		result:      result,
		callback:    callback,
	}
	r.expectations = append(r.expectations, exp)

	r.logger.Debug("registered expectation",
		zap.Stringer("id", exp.ID),
		zap.String("description", desc),
		zap.Int("count", len(r.expectations)))
	return exp, nil
}

// Resolve finds the most recently registered expectation matching the
// invocation, runs its callback and returns its result
func (r *Registry[R]) Resolve(text string, invocation []core.Param) (R, error) {
	for i := len(r.expectations) - 1; i >= 0; i-- {
		exp := r.expectations[i]
		if !exp.text(text) || !exp.params(invocation) {
			continue
		}

		exp.calls++
		r.logger.Debug("resolved raw invocation",
			zap.Stringer("id", exp.ID),
			zap.String("text", text),
			zap.Int("params", len(invocation)))

		if exp.callback != nil {
			exp.callback(text, invocation)
		}
		return exp.result, nil
	}

	r.logger.Warn("no matching registration",
		zap.String("text", text),
		zap.Any("params", invocation))

	var zero R
	return zero, &errors.NoMatchError{
		Registry: r.name,
		Text:     text,
		Params:   append([]core.Param(nil), invocation...),
	}
}

// Expectations returns the registered expectations in registration order
func (r *Registry[R]) Expectations() []*Expectation[R] {
	return append([]*Expectation[R](nil), r.expectations...)
}

// Len returns the number of registered expectations
func (r *Registry[R]) Len() int {
	return len(r.expectations)
}

// Reset removes every expectation
func (r *Registry[R]) Reset() {
	r.expectations = nil
}

func describe(fragment string, registered []core.Param) string {
	if len(registered) == 0 {
		return fmt.Sprintf("%q", fragment)
	}
	names := make([]string, len(registered))
	for i, p := range registered {
		names[i] = p.Name
	}
	return fmt.Sprintf("%q (%s)", fragment, strings.Join(names, ", "))
}

func isNilResult(v any) bool {
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
