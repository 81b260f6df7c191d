// Package partiql routes DynamoDB ExecuteStatement calls to a dynamock
// context, so code written against the DynamoDB client can run its PartiQL
// statements against registered expectations.
//
// SELECT statements are resolved against the raw query expectations of the
// collection named in their FROM clause. Every other statement is resolved
// against the command expectations. Positional parameters are named p1, p2,
// and so on, in statement order.
package partiql

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/pay-theory/dynamock/internal/attrconv"
	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/errors"
)

// ExecuteStatementAPI is the subset of the DynamoDB client this package serves
type ExecuteStatementAPI interface {
	ExecuteStatement(ctx context.Context, params *dynamodb.ExecuteStatementInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ExecuteStatementOutput, error)
}

var (
	selectPattern = regexp.MustCompile(`(?is)^\s*SELECT\b`)
	fromPattern   = regexp.MustCompile(`(?i)\bFROM\s+"?([A-Za-z0-9_.\-]+)"?`)
)

// Client implements ExecuteStatementAPI over a database double
type Client struct {
	db     core.Database
	logger *zap.Logger
}

var _ ExecuteStatementAPI = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client backed by db
func NewClient(db core.Database, opts ...Option) *Client {
	c := &Client{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExecuteStatement resolves a PartiQL statement. Options are accepted and ignored.
func (c *Client) ExecuteStatement(ctx context.Context, input *dynamodb.ExecuteStatementInput, _ ...func(*dynamodb.Options)) (*dynamodb.ExecuteStatementOutput, error) {
	if input == nil || input.Statement == nil || strings.TrimSpace(*input.Statement) == "" {
		return nil, errors.NewError("ExecuteStatement", "", fmt.Errorf("%w: statement is required", errors.ErrUnsupportedOperation))
	}
	statement := *input.Statement

	params, err := Params(input.Parameters)
	if err != nil {
		return nil, errors.NewError("ExecuteStatement", "", err)
	}

	if !selectPattern.MatchString(statement) {
		rows, err := c.db.ExecuteRaw(ctx, statement, params...)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("executed statement",
			zap.String("statement", statement),
			zap.Int64("rows", rows))
		return &dynamodb.ExecuteStatementOutput{Items: []map[string]types.AttributeValue{}}, nil
	}

	table, ok := TableName(statement)
	if !ok {
		return nil, errors.NewError("ExecuteStatement", "", fmt.Errorf("%w: no table in %q", errors.ErrUnsupportedOperation, statement))
	}

	results, err := c.db.QueryRaw(ctx, table, statement, params...)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]types.AttributeValue, 0, len(results))
	for _, result := range results {
		item, err := attrconv.MarshalItem(result)
		if err != nil {
			return nil, errors.NewError("ExecuteStatement", table, err)
		}
		items = append(items, item)
	}

	c.logger.Debug("queried statement",
		zap.String("table", table),
		zap.String("statement", statement),
		zap.Int("items", len(items)))
	return &dynamodb.ExecuteStatementOutput{Items: items}, nil
}

// Params names positional statement parameters p1, p2, ...
func Params(values []types.AttributeValue) ([]core.Param, error) {
	params := make([]core.Param, len(values))
	for i, av := range values {
		value, err := attrconv.FromAttributeValue(av)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		params[i] = core.Param{Name: fmt.Sprintf("p%d", i+1), Value: value}
	}
	return params, nil
}

// TableName extracts the table named in a statement's FROM clause. A
// secondary index reference such as "Users"."byEmail" yields the table.
func TableName(statement string) (string, bool) {
	m := fromPattern.FindStringSubmatch(statement)
	if m == nil {
		return "", false
	}
	return m[1], true
}
