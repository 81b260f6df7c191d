package partiql_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pay-theory/dynamock"
	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/params"
	"github.com/pay-theory/dynamock/pkg/partiql"
)

type Order struct {
	ID     string
	Status string `dynamock:"attr:state"`
	Total  float64
	Secret string `dynamock:"-"`
}

func setup(t *testing.T) (*dynamock.Context, *dynamock.Set[Order], *partiql.Client) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	db, err := dynamock.New(dynamock.WithLogger(logger))
	require.NoError(t, err)
	orders, err := dynamock.Register(db, dynamock.Model[Order]{
		Key: func(o Order) any { return o.ID },
	})
	require.NoError(t, err)
	return db, orders, partiql.NewClient(db, partiql.WithLogger(logger))
}

func TestExecuteStatement_Select(t *testing.T) {
	ctx := context.Background()
	_, orders, client := setup(t)

	var seen []core.Param
	_, err := orders.ExpectRaw(`FROM "Orders"`, params.New("p1", "open")).
		Do(func(_ string, ps []core.Param) { seen = ps }).
		Returns([]Order{{ID: "o1", Status: "open", Total: 12.5, Secret: "x"}})
	require.NoError(t, err)

	out, err := client.ExecuteStatement(ctx, &dynamodb.ExecuteStatementInput{
		Statement: aws.String(`SELECT * FROM "Orders" WHERE state = ? AND total > ?`),
		Parameters: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "open"},
			&types.AttributeValueMemberN{Value: "10"},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	item := out.Items[0]
	assert.Equal(t, &types.AttributeValueMemberS{Value: "o1"}, item["id"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "open"}, item["state"])
	assert.Equal(t, &types.AttributeValueMemberN{Value: "12.5"}, item["total"])
	assert.NotContains(t, item, "secret")

	assert.Equal(t, []core.Param{{Name: "p1", Value: "open"}, {Name: "p2", Value: int64(10)}}, seen)
}

func TestExecuteStatement_SelectFromIndex(t *testing.T) {
	ctx := context.Background()
	_, orders, client := setup(t)
	_, err := orders.ExpectRaw("byStatus").Returns([]Order{{ID: "o2"}})
	require.NoError(t, err)

	out, err := client.ExecuteStatement(ctx, &dynamodb.ExecuteStatementInput{
		Statement: aws.String(`select id from "orders"."byStatus"`),
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
}

func TestExecuteStatement_Command(t *testing.T) {
	ctx := context.Background()
	db, orders, client := setup(t)
	_, err := db.ExpectCommand(`DELETE FROM "Orders"`, params.New("p1", "o1")).Returns(1)
	require.NoError(t, err)

	out, err := client.ExecuteStatement(ctx, &dynamodb.ExecuteStatementInput{
		Statement:  aws.String(`DELETE FROM "Orders" WHERE id = ?`),
		Parameters: []types.AttributeValue{&types.AttributeValueMemberS{Value: "o1"}},
	})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	count, err := orders.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "commands never touch the snapshot")
}

func TestExecuteStatement_Errors(t *testing.T) {
	ctx := context.Background()
	_, _, client := setup(t)

	tests := []struct {
		name   string
		input  *dynamodb.ExecuteStatementInput
		target error
	}{
		{
			name:   "nil input",
			input:  nil,
			target: errors.ErrUnsupportedOperation,
		},
		{
			name:   "blank statement",
			input:  &dynamodb.ExecuteStatementInput{Statement: aws.String("  ")},
			target: errors.ErrUnsupportedOperation,
		},
		{
			name:   "select without table",
			input:  &dynamodb.ExecuteStatementInput{Statement: aws.String("SELECT 1")},
			target: errors.ErrUnsupportedOperation,
		},
		{
			name:   "unknown table",
			input:  &dynamodb.ExecuteStatementInput{Statement: aws.String(`SELECT * FROM "Invoices"`)},
			target: errors.ErrModelNotRegistered,
		},
		{
			name:   "no matching raw query",
			input:  &dynamodb.ExecuteStatementInput{Statement: aws.String(`SELECT * FROM "Orders"`)},
			target: errors.ErrNoMatchingRegistration,
		},
		{
			name:   "no matching command",
			input:  &dynamodb.ExecuteStatementInput{Statement: aws.String(`UPDATE "Orders" SET state = 'x'`)},
			target: errors.ErrNoMatchingRegistration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ExecuteStatement(ctx, tt.input)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParams(t *testing.T) {
	got, err := partiql.Params([]types.AttributeValue{
		&types.AttributeValueMemberS{Value: "a"},
		&types.AttributeValueMemberN{Value: "1.5"},
		&types.AttributeValueMemberNULL{Value: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []core.Param{
		{Name: "p1", Value: "a"},
		{Name: "p2", Value: 1.5},
		{Name: "p3", Value: nil},
	}, got)

	_, err = partiql.Params([]types.AttributeValue{&types.AttributeValueMemberN{Value: "nan?"}})
	assert.Error(t, err)
}

func TestTableName(t *testing.T) {
	tests := []struct {
		statement string
		want      string
		ok        bool
	}{
		{`SELECT * FROM "Orders"`, "Orders", true},
		{`select * from Orders where id = ?`, "Orders", true},
		{`SELECT * FROM "Orders"."byStatus"`, "Orders", true},
		{`SELECT 1`, "", false},
	}

	for _, tt := range tests {
		got, ok := partiql.TableName(tt.statement)
		assert.Equal(t, tt.ok, ok, tt.statement)
		assert.Equal(t, tt.want, got, tt.statement)
	}
}
