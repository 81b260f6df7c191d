package testing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pay-theory/dynamock"
	"github.com/pay-theory/dynamock/pkg/params"
	dynamocktesting "github.com/pay-theory/dynamock/pkg/testing"
)

type account struct {
	ID      string
	Balance int
}

func TestNewTestDB_CapturesLogs(t *testing.T) {
	db := dynamocktesting.NewTestDB(t)
	require.NotNil(t, db.Context)

	accounts := dynamocktesting.Register(t, db, dynamock.Model[account]{
		Key: func(a account) any { return a.ID },
	})
	assert.Equal(t, "accounts", accounts.Name())
	db.AssertLogged(t, "registered model")

	_, err := db.ExecuteRaw(context.Background(), "UPDATE accounts")
	dynamocktesting.AssertNoMatch(t, err)
	db.AssertLogged(t, "no matching registration")
}

func TestNewTestDB_AppliesOptions(t *testing.T) {
	cfg := dynamock.DefaultConfig()
	cfg.RejectClientEvaluation = false
	db := dynamocktesting.NewTestDB(t, dynamock.WithConfig(cfg))
	assert.False(t, db.Config().RejectClientEvaluation)
}

func TestAssertCalls(t *testing.T) {
	ctx := context.Background()
	db := dynamocktesting.NewTestDB(t)
	accounts := dynamocktesting.Register(t, db, dynamock.Model[account]{})

	exp, err := accounts.ExpectRaw("sp_Balances", params.New("@min", 10)).Returns([]account{{ID: "a1", Balance: 50}})
	require.NoError(t, err)
	dynamocktesting.AssertCalls(t, exp, 0)

	for range 2 {
		_, err := accounts.FromRaw("EXEC sp_Balances @min", params.New("@min", int64(10))).All(ctx)
		require.NoError(t, err)
	}
	dynamocktesting.AssertCalls(t, exp, 2)
}

func TestAssertErrorKinds(t *testing.T) {
	ctx := context.Background()
	db := dynamocktesting.NewTestDB(t)
	views := dynamocktesting.Register(t, db, dynamock.Model[account]{ReadOnly: true})

	dynamocktesting.AssertReadOnly(t, views.Add(account{ID: "a1"}))

	_, err := views.Query().ElementAt(ctx, 0)
	dynamocktesting.AssertUnsupported(t, err)
	db.AssertLogged(t, "rejected untranslatable query")
}
