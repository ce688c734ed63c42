// Package storage contains the storage-agnostic sink contract and factory.
// Concrete backends (postgres, sqlite, mysql, mssql) live in subpackages and
// register themselves at init time, so callers obtain a Repository via New
// without importing database drivers directly.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config configures a sink for one destination table.
type Config struct {
	// Kind selects the registered backend, e.g. "postgres".
	Kind string

	// DSN is the backend connection string.
	DSN string

	// Table is the destination table name (possibly schema-qualified).
	Table string

	// Columns is the ordered destination column list. All columns are
	// text-typed; the pipeline is all-strings by contract.
	Columns []string
}

// Repository is the minimal sink interface used by the pipeline.
type Repository interface {
	// EnsureTable creates the destination table (all-text columns) when it
	// does not already exist.
	EnsureTable(ctx context.Context) error

	// CopyFrom bulk-inserts rows aligned to the configured column order and
	// returns the number of rows written.
	CopyFrom(ctx context.Context, rows [][]any) (int64, error)

	// Close releases the underlying connections.
	Close()
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a storage kind. Called from
// backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind. Unknown kinds are an error; callers
// should have validated the configuration beforehand.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: no backend registered for kind %q", cfg.Kind)
	}
	return f(ctx, cfg)
}
