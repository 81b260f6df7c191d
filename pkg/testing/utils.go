// Package testing provides helpers for tests that use dynamock.
package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pay-theory/dynamock"
	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/raw"
)

// TestDB bundles a context with the logs it wrote
type TestDB struct {
	*dynamock.Context
	Logs *observer.ObservedLogs
}

// NewTestDB creates a context whose logs are captured at debug level
func NewTestDB(t testing.TB, opts ...dynamock.Option) *TestDB {
	t.Helper()
	logCore, logs := observer.New(zapcore.DebugLevel)
	opts = append([]dynamock.Option{dynamock.WithLogger(zap.New(logCore))}, opts...)
	db, err := dynamock.New(opts...)
	require.NoError(t, err)
	return &TestDB{Context: db, Logs: logs}
}

// Register wires a collection and fails the test on error
func Register[T any](t testing.TB, db *TestDB, m dynamock.Model[T]) *dynamock.Set[T] {
	t.Helper()
	set, err := dynamock.Register(db.Context, m)
	require.NoError(t, err)
	return set
}

// AssertLogged asserts that a message was logged at least once
func (db *TestDB) AssertLogged(t testing.TB, message string) bool {
	t.Helper()
	return assert.NotZero(t, db.Logs.FilterMessage(message).Len(), "expected log %q", message)
}

// AssertCalls asserts how many times an expectation was resolved
func AssertCalls[R any](t testing.TB, e *raw.Expectation[R], want int) bool {
	t.Helper()
	return assert.Equal(t, want, e.Calls(), "calls to %s", e.Description)
}

// AssertNoMatch asserts err reports an unmatched raw invocation
func AssertNoMatch(t testing.TB, err error) bool {
	t.Helper()
	return assert.True(t, errors.IsNoMatch(err), "expected no matching registration, got %v", err)
}

// AssertUnsupported asserts err reports an untranslatable query shape
func AssertUnsupported(t testing.TB, err error) bool {
	t.Helper()
	return assert.True(t, errors.IsUnsupported(err), "expected unsupported operation, got %v", err)
}

// AssertReadOnly asserts err reports a rejected write to a read-only collection
func AssertReadOnly(t testing.TB, err error) bool {
	t.Helper()
	return assert.True(t, errors.IsReadOnly(err), "expected read-only rejection, got %v", err)
}
