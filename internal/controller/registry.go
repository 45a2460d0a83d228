package controller

import (
	"context"

	"github.com/ekotto/cashbook/internal/schema"
)

// Record is implemented by every entity a record controller manages.
type Record interface {
	GetID() uint
}

// Source exposes a managed table for foreign-key lookups, so selection
// widgets can list the rows of a related entity without knowing its type.
type Source interface {
	Table() schema.Table
	AllRecords(ctx context.Context) ([]Record, error)
	RecordByID(ctx context.Context, id uint) (Record, error)
}

// Registry resolves foreign-key targets to their controllers by table name.
type Registry struct {
	sources map[string]Source
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source under its declared table name. Later registrations
// replace earlier ones.
func (r *Registry) Register(s Source) {
	r.sources[s.Table().Name] = s
}

// Source returns the registered source for a table name.
func (r *Registry) Source(table string) (Source, bool) {
	s, ok := r.sources[table]
	return s, ok
}
