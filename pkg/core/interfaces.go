// Package core defines the core interfaces and types for dynamock
package core

import (
	"context"
)

// Param represents a named parameter passed to a raw command or query
type Param struct {
	Name  string
	Value any
}

// CommandExecutor executes raw, non-query commands and reports the number of
// affected rows
type CommandExecutor interface {
	// ExecuteRaw runs a free-text command with an ordered parameter list
	ExecuteRaw(ctx context.Context, text string, params ...Param) (int64, error)
}

// RawQuerier resolves raw queries against a named collection without knowing
// its entity type. Results are returned as the collection's entity values.
type RawQuerier interface {
	// QueryRaw resolves a raw query issued against the named collection
	QueryRaw(ctx context.Context, collection string, text string, params ...Param) ([]any, error)
}

// Database is the surface of the double consumed by adapters such as the
// PartiQL client
type Database interface {
	CommandExecutor
	RawQuerier

	// Collections returns the names of all registered collections
	Collections() []string
}
