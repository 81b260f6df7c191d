// Package dynamock provides an in-memory double for a data-access context.
//
// A Context holds one collection per registered entity type. Standard
// queries against a collection run in memory over its current contents.
// Raw queries and commands, free text plus an ordered parameter list, are
// resolved against expectations registered by the test:
//
//	db, _ := dynamock.New()
//	users := dynamock.MustRegister(db, dynamock.Model[User]{
//	    Key:  func(u User) any { return u.ID },
//	    Seed: []User{{ID: "u1", Status: "active"}},
//	})
//
//	active, _ := users.Where("Status", "=", "active").All(ctx)
//
//	users.ExpectRaw("sp_GetUsers", params.New("@tenant", "t1")).
//	    Returns([]User{{ID: "u9"}})
//	fromProc, _ := users.FromRaw("EXEC sp_GetUsers @tenant", params.New("@tenant", "t1")).All(ctx)
//
//	db.ExpectCommand("DELETE FROM Users").Returns(1)
//	rows, _ := db.ExecuteRaw(ctx, "DELETE FROM Users WHERE id = @id", params.New("@id", "u1"))
//
// Query shapes a real provider cannot translate fail with
// errors.ErrUnsupportedOperation even though they could run in memory.
package dynamock

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/pay-theory/dynamock/pkg/core"
	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/model"
	"github.com/pay-theory/dynamock/pkg/query"
	"github.com/pay-theory/dynamock/pkg/raw"
)

// Context is the in-memory double of a data-access context
type Context struct {
	config   *Config
	logger   *zap.Logger
	registry *model.Registry
	commands *raw.CommandRegistry
}

var _ core.Database = (*Context)(nil)

// Option configures a Context
type Option func(*Context)

// WithConfig sets the configuration
func WithConfig(cfg *Config) Option {
	return func(c *Context) {
		if cfg != nil {
			copied := *cfg
			c.config = &copied
		}
	}
}

// WithLogger injects the logger passed to every collection and registry
func WithLogger(logger *zap.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// New creates an empty context
func New(opts ...Option) (*Context, error) {
	c := &Context{
		config:   DefaultConfig(),
		registry: model.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		logger, err := c.config.buildLogger()
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		c.logger = logger
	}

	c.commands = raw.NewCommandRegistry("commands", c.logger)
	if c.config.DefaultCommandResult != nil {
		c.commands.RegisterAny(*c.config.DefaultCommandResult)
	}

	c.logger.Debug("created context",
		zap.Bool("reject_client_evaluation", c.config.RejectClientEvaluation))
	return c, nil
}

// Logger returns the context logger
func (c *Context) Logger() *zap.Logger {
	return c.logger
}

// Config returns a copy of the configuration
func (c *Context) Config() Config {
	return *c.config
}

// Commands returns the command result registry
func (c *Context) Commands() *raw.CommandRegistry {
	return c.commands
}

// ExecuteRaw resolves a raw command to its registered affected-row count
func (c *Context) ExecuteRaw(ctx context.Context, text string, params ...core.Param) (int64, error) {
	return query.Execute(ctx, c.commands, query.RawCommand{Text: text, Params: slices.Clone(params)})
}

// ExpectCommand starts a command expectation for text containing fragment
// and carrying params as an ordered subsequence
func (c *Context) ExpectCommand(fragment string, params ...core.Param) *CommandExpectation {
	return &CommandExpectation{
		registry: c.commands.Registry,
		fragment: fragment,
		params:   slices.Clone(params),
	}
}

// ExpectAnyCommand makes every command return rows unless a later
// expectation matches
func (c *Context) ExpectAnyCommand(rows int64) *raw.Expectation[int64] {
	return c.commands.RegisterAny(rows)
}

// QueryRaw resolves a raw query against the named collection
func (c *Context) QueryRaw(ctx context.Context, collection string, text string, params ...core.Param) ([]any, error) {
	metadata, err := c.registry.GetMetadataByTable(collection)
	if err != nil {
		return nil, errors.NewError("query", collection, err)
	}
	return metadata.Collection.(rawQuerier).queryRaw(ctx, text, params)
}

// Collections returns the names of all registered collections
func (c *Context) Collections() []string {
	return c.registry.TableNames()
}

// Model describes one entity collection
type Model[T any] struct {
	// Name is the collection (table) name. Defaults to the pluralised type name.
	Name string

	// Key identifies an entity. Update requires it; Remove falls back to
	// structural equality without it.
	Key func(T) any

	// ReadOnly rejects tracked writes, like a keyless view
	ReadOnly bool

	// Seed is the initial content
	Seed []T
}

// Register wires a collection for T
func Register[T any](c *Context, m Model[T]) (*Set[T], error) {
	metadata := &model.Metadata{
		Type:      reflect.TypeFor[T](),
		TableName: m.Name,
		ReadOnly:  m.ReadOnly,
		HasKey:    m.Key != nil,
	}
	if metadata.TableName == "" {
		metadata.TableName = model.DefaultTableName(metadata.Type)
	}

	set := newSet(c, metadata.TableName, m)
	metadata.Collection = set
	if err := c.registry.Register(metadata); err != nil {
		return nil, errors.NewError("register", metadata.TableName, err)
	}

	c.logger.Debug("registered model",
		zap.String("table", metadata.TableName),
		zap.Stringer("type", metadata.Type),
		zap.Bool("read_only", m.ReadOnly),
		zap.Int("seed", len(m.Seed)))
	return set, nil
}

// MustRegister is like Register but panics on error
func MustRegister[T any](c *Context, m Model[T]) *Set[T] {
	set, err := Register(c, m)
	if err != nil {
		panic(err)
	}
	return set
}

// SetOf returns the collection registered for T
func SetOf[T any](c *Context) (*Set[T], error) {
	metadata, err := c.registry.GetMetadata(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return metadata.Collection.(*Set[T]), nil
}
