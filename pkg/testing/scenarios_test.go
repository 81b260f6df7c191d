package testing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/mocks"
	dynamocktesting "github.com/pay-theory/dynamock/pkg/testing"
)

func TestCommonScenarios_Commands(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db := new(mocks.MockDatabase)
		dynamocktesting.NewCommonScenarios(db).SetupCommand("DELETE FROM accounts", 3)

		rows, err := db.ExecuteRaw(ctx, "DELETE FROM accounts")
		require.NoError(t, err)
		assert.Equal(t, int64(3), rows)
		db.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		db := new(mocks.MockDatabase)
		expected := errors.New("boom")
		dynamocktesting.NewCommonScenarios(db).SetupCommandFailure(expected)

		_, err := db.ExecuteRaw(ctx, "anything")
		assert.ErrorIs(t, err, expected)
	})

	t.Run("default failure", func(t *testing.T) {
		db := new(mocks.MockDatabase)
		dynamocktesting.NewCommonScenarios(db).SetupCommandFailure(nil)

		_, err := db.ExecuteRaw(ctx, "anything")
		assert.Error(t, err)
	})
}

func TestCommonScenarios_Queries(t *testing.T) {
	ctx := context.Background()
	db := new(mocks.MockDatabase)
	scenarios := dynamocktesting.NewCommonScenarios(db)

	scenarios.SetupQueryWithParams("accounts", []core.Param{{Name: "@ID", Value: 1}}, account{ID: "a1"})
	scenarios.SetupQuery("ledgers", "l1", "l2")
	scenarios.SetupCollections("accounts", "ledgers")

	got, err := db.QueryRaw(ctx, "accounts", "EXEC sp_Account @id, @at",
		core.Param{Name: "@id", Value: int64(1)}, core.Param{Name: "@at", Value: "now"})
	require.NoError(t, err)
	assert.Equal(t, []any{account{ID: "a1"}}, got)

	got, err = db.QueryRaw(ctx, "ledgers", "SELECT * FROM ledgers")
	require.NoError(t, err)
	assert.Equal(t, []any{"l1", "l2"}, got)

	assert.Equal(t, []string{"accounts", "ledgers"}, db.Collections())
	db.AssertExpectations(t)
}
