// Package model provides model registration and metadata management for dynamock.
//
// Collections are wired from an explicit registration made once per entity
// type, so no reflection over a parent context is needed to find them.
package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pay-theory/dynamock/pkg/errors"
	"github.com/pay-theory/dynamock/pkg/validation"
)

// Registry manages registered models and their metadata
type Registry struct {
	mu     sync.RWMutex
	models map[reflect.Type]*Metadata
	tables map[string]*Metadata
}

// NewRegistry creates a new model registry
func NewRegistry() *Registry {
	return &Registry{
		models: make(map[reflect.Type]*Metadata),
		tables: make(map[string]*Metadata),
	}
}

// Metadata holds all metadata for a model
type Metadata struct {
	Type      reflect.Type
	TableName string
	ReadOnly  bool
	HasKey    bool

	// Collection is the typed collection wired for this model
	Collection any
}

// Register adds a model. Registering the same type or table name twice fails.
func (r *Registry) Register(metadata *Metadata) error {
	if metadata == nil || metadata.Type == nil {
		return fmt.Errorf("%w: model type is required", errors.ErrInvalidRegistration)
	}
	if metadata.TableName == "" {
		metadata.TableName = DefaultTableName(metadata.Type)
	}
	if err := validation.ValidateTableName(metadata.TableName); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.models[metadata.Type]; exists {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateModel, metadata.Type)
	}
	key := strings.ToLower(metadata.TableName)
	if _, exists := r.tables[key]; exists {
		return fmt.Errorf("%w: table %s", errors.ErrDuplicateModel, metadata.TableName)
	}

	r.models[metadata.Type] = metadata
	r.tables[key] = metadata
	return nil
}

// GetMetadata retrieves metadata for a model type
func (r *Registry) GetMetadata(modelType reflect.Type) (*Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata, exists := r.models[modelType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", errors.ErrModelNotRegistered, modelType)
	}

	return metadata, nil
}

// GetMetadataByTable retrieves metadata by table name, ignoring case
func (r *Registry) GetMetadataByTable(tableName string) (*Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata, exists := r.tables[strings.ToLower(tableName)]
	if !exists {
		return nil, fmt.Errorf("%w: table %s", errors.ErrModelNotRegistered, tableName)
	}

	return metadata, nil
}

// TableNames returns the registered table names in sorted order
func (r *Registry) TableNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.models))
	for _, m := range r.models {
		names = append(names, m.TableName)
	}
	sort.Strings(names)
	return names
}

// DefaultTableName derives a table name from a model type: the type name
// with an "s" suffix, e.g. User -> Users
func DefaultTableName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}
