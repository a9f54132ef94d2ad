// Package csvdir implements a storage.Repository that writes each stored
// table as a CSV file in a local directory. It mirrors the object-store
// layout of the original deployment: one file per output table per batch.
package csvdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scrub/internal/parser/csv"
	"scrub/internal/storage"
	"scrub/internal/table"
)

func init() {
	storage.Register("csvdir", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return Open(cfg.DSN)
	})
}

// Repository writes tables as <dir>/<name>.csv.
type Repository struct {
	dir string
}

// Open ensures dir exists and returns a Repository rooted there.
func Open(dir string) (*Repository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("csvdir: directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("csvdir: mkdir %s: %w", dir, err)
	}
	return &Repository{dir: dir}, nil
}

// StoreTable writes the table to <dir>/<name>.csv, replacing any previous
// file. The write goes through a temp file and rename so readers never see a
// partial table.
func (r *Repository) StoreTable(ctx context.Context, name string, tbl *table.Table, indexLabel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	final := filepath.Join(r.dir, name+".csv")
	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("csvdir: temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := csv.WriteTable(tmp, tbl, csv.WriteOptions{IndexLabel: indexLabel}); err != nil {
		tmp.Close()
		return fmt.Errorf("csvdir: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csvdir: close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("csvdir: rename %s: %w", name, err)
	}
	return nil
}

// Close is a no-op for the directory sink.
func (r *Repository) Close() error { return nil }
