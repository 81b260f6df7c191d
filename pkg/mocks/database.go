package mocks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/mock"

	"github.com/pay-theory/dynamock/pkg/core"
)

// MockDatabase is a mock implementation of core.Database.
//
// Example usage:
//
//	db := new(mocks.MockDatabase)
//	db.On("ExecuteRaw", mock.Anything, "UPDATE Users", mock.Anything).Return(int64(1), nil)
type MockDatabase struct {
	mock.Mock
}

var _ core.Database = (*MockDatabase)(nil)

// ExecuteRaw executes a raw command
func (m *MockDatabase) ExecuteRaw(ctx context.Context, text string, params ...core.Param) (int64, error) {
	args := m.Called(ctx, text, params)
	return args.Get(0).(int64), args.Error(1)
}

// QueryRaw runs a raw query against a collection
func (m *MockDatabase) QueryRaw(ctx context.Context, collection string, text string, params ...core.Param) ([]any, error) {
	args := m.Called(ctx, collection, text, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]any), args.Error(1)
}

// Collections returns the collection names
func (m *MockDatabase) Collections() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

// MockExecuteStatementAPI is a mock of the DynamoDB ExecuteStatement surface
type MockExecuteStatementAPI struct {
	mock.Mock
}

// ExecuteStatement executes a PartiQL statement
func (m *MockExecuteStatementAPI) ExecuteStatement(ctx context.Context, params *dynamodb.ExecuteStatementInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ExecuteStatementOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.ExecuteStatementOutput), args.Error(1)
}
