package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/mocks"
	"github.com/pay-theory/dynamock/pkg/partiql"
)

func TestMockDatabase(t *testing.T) {
	db := new(mocks.MockDatabase)
	ctx := context.Background()

	t.Run("execute raw", func(t *testing.T) {
		db.On("ExecuteRaw", ctx, "DELETE FROM Orders", []core.Param{{Name: "@id", Value: "o1"}}).
			Return(int64(1), nil).Once()

		rows, err := db.ExecuteRaw(ctx, "DELETE FROM Orders", core.Param{Name: "@id", Value: "o1"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), rows)
	})

	t.Run("query raw error returns nil items", func(t *testing.T) {
		expectedErr := errors.New("query failed")
		db.On("QueryRaw", ctx, "Orders", "EXEC sp_Orders", mock.Anything).Return(nil, expectedErr).Once()

		items, err := db.QueryRaw(ctx, "Orders", "EXEC sp_Orders")
		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, items)
	})

	t.Run("collections", func(t *testing.T) {
		db.On("Collections").Return([]string{"Orders"}).Once()
		assert.Equal(t, []string{"Orders"}, db.Collections())
	})

	db.AssertExpectations(t)
}

func TestMockDatabase_PanicsOnUnexpectedReturnTypes(t *testing.T) {
	db := new(mocks.MockDatabase)
	ctx := context.Background()

	db.On("ExecuteRaw", ctx, "DELETE", mock.Anything).Return("bad-type", nil).Once()

	assert.Panics(t, func() {
		_, err := db.ExecuteRaw(ctx, "DELETE")
		assert.NoError(t, err)
	})

	db.AssertExpectations(t)
}

func TestMockDatabase_DrivesPartiQLClient(t *testing.T) {
	db := new(mocks.Database)
	ctx := context.Background()

	db.On("QueryRaw", ctx, "Orders", mock.Anything, []core.Param{{Name: "p1", Value: "o1"}}).
		Return([]any{map[string]any{"id": "o1"}}, nil).Once()

	out, err := partiql.NewClient(db).ExecuteStatement(ctx, &dynamodb.ExecuteStatementInput{
		Statement:  aws.String(`SELECT * FROM "Orders" WHERE id = ?`),
		Parameters: []types.AttributeValue{&types.AttributeValueMemberS{Value: "o1"}},
	})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)

	db.AssertExpectations(t)
}

func TestMockExecuteStatementAPI(t *testing.T) {
	client := new(mocks.ExecuteStatementClient)
	ctx := context.Background()
	var api partiql.ExecuteStatementAPI = client

	input := &dynamodb.ExecuteStatementInput{Statement: aws.String(`SELECT * FROM "Orders"`)}
	client.On("ExecuteStatement", ctx, input, mock.Anything).Return(&dynamodb.ExecuteStatementOutput{}, nil).Once()

	out, err := api.ExecuteStatement(ctx, input)
	assert.NoError(t, err)
	assert.NotNil(t, out)

	client.AssertExpectations(t)
}
