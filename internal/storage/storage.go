// Package storage contains the storage-agnostic sink contract for batch
// outputs and a factory for concrete backends. Every batch produces three
// tables (clean, hard rejects, soft rejects); a Repository materializes each
// one under a caller-chosen name. Concrete backends live in subpackages and
// register themselves via Register, usually through a blank import of
// storage/all.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"scrub/internal/table"
)

// Config selects and configures a backend.
type Config struct {
	// Kind selects the backend implementation ("sqlite", "postgres", "csvdir").
	Kind string

	// DSN is backend-specific: a connection string for databases, a
	// directory path for the csvdir sink.
	DSN string
}

// Repository is the minimal sink contract. Values are stored as nullable
// text; typing the stored output is downstream's concern.
type Repository interface {
	// StoreTable materializes tbl under name, replacing any previous content
	// for that name. indexLabel, when non-empty, adds a leading column with
	// each row's stable index.
	StoreTable(ctx context.Context, name string, tbl *table.Table, indexLabel string) error

	// Close releases the backend's resources.
	Close() error
}

// Factory constructs a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under kind. Registering the same kind
// twice panics; it indicates conflicting init wiring.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic(fmt.Sprintf("storage: factory %q registered twice", kind))
	}
	factories[kind] = f
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Rows flattens a table into an insert-ready row list aligned to columns.
// When indexLabel is non-empty the stable row index is prepended to both the
// returned column list and each row.
func Rows(tbl *table.Table, indexLabel string) (columns []string, rows [][]any) {
	columns = append([]string(nil), tbl.Names()...)
	if indexLabel != "" {
		columns = append([]string{indexLabel}, columns...)
	}
	rows = make([][]any, tbl.Len())
	for i, ix := range tbl.Index() {
		row := make([]any, 0, len(columns))
		if indexLabel != "" {
			row = append(row, ix)
		}
		for _, n := range tbl.Names() {
			cell := tbl.Column(n)[i]
			if cell == nil {
				row = append(row, nil)
			} else {
				row = append(row, *cell)
			}
		}
		rows[i] = row
	}
	return columns, rows
}
