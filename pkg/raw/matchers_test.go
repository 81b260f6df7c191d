package raw_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/params"
	"github.com/pay-theory/dynamock/pkg/raw"
)

func TestRegexp(t *testing.T) {
	match := raw.Regexp(`^EXEC\s+sp_Orders\b`)
	assert.True(t, match("EXEC sp_Orders @id"))
	assert.True(t, match("EXEC   sp_Orders\n@id"))
	assert.False(t, match("exec sp_Orders"))
	assert.False(t, match("EXEC sp_OrdersByDate"))

	assert.False(t, raw.Regexp(`(`)("anything"))
}

func TestExact(t *testing.T) {
	match := raw.Exact("DELETE FROM Orders WHERE id = @id")
	assert.True(t, match("DELETE FROM Orders  WHERE id = @id"))
	assert.False(t, match("delete from orders where id = @id"))
	assert.False(t, match("DELETE FROM Orders WHERE id = @id AND 1 = 1"))
}

func TestQuery_CustomMatcher(t *testing.T) {
	prefix := sqlmock.QueryMatcherFunc(func(expected, actual string) error {
		if len(actual) < len(expected) || actual[:len(expected)] != expected {
			return assert.AnError
		}
		return nil
	})
	match := raw.Query(prefix, "SELECT")
	assert.True(t, match("SELECT 1"))
	assert.False(t, match("UPDATE x"))
}

func TestRegistry_WithRegexpMatcher(t *testing.T) {
	registry := raw.NewCommandRegistry("commands", nil)
	_, err := registry.Register(raw.Regexp(`^UPDATE Orders SET`), params.Subsequence(params.New("@id", 1)), 1, nil)
	require.NoError(t, err)

	rows, err := registry.Resolve("UPDATE Orders SET state = @state WHERE id = @id",
		[]core.Param{params.New("@state", "open"), params.New("@id", 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = registry.Resolve("SELECT 1; UPDATE Orders SET state = 'x'", []core.Param{params.New("@id", 1)})
	assert.Error(t, err)
}
