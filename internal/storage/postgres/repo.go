// Package postgres implements a Postgres storage.Repository using pgx v5.
// Rows are loaded with COPY, the fastest bulk path Postgres offers.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scrub/internal/storage"
	"scrub/internal/table"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return Open(ctx, cfg.DSN)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// Open connects a pgx pool for the given DSN.
func Open(ctx context.Context, dsn string) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres: DSN must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// StoreTable recreates the named table with text columns and COPYs all rows
// into it inside one transaction.
func (r *Repository) StoreTable(ctx context.Context, name string, tbl *table.Table, indexLabel string) error {
	columns, rows := storage.Rows(tbl, indexLabel)
	if len(columns) == 0 {
		return fmt.Errorf("postgres: table %q has no columns", name)
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquire: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgIdent(name)); err != nil {
		return fmt.Errorf("postgres: drop %s: %w", name, err)
	}
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgIdent(c) + " text"
	}
	if indexLabel != "" {
		defs[0] = pgIdent(indexLabel) + " bigint"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", pgIdent(name), strings.Join(defs, ", "))
	if _, err := tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("postgres: create %s: %w", name, err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{name}, columns, pgx.CopyFromRows(copyRows(rows)))
	if err != nil {
		return fmt.Errorf("postgres: copy into %s: %w", name, err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("postgres: copy into %s: %d of %d rows", name, copied, len(rows))
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit %s: %w", name, err)
	}
	return nil
}

// copyRows rewrites integer index cells as int64 for the pgx codec; string
// and nil cells pass through.
func copyRows(rows [][]any) [][]any {
	for _, row := range rows {
		for j, v := range row {
			if n, ok := v.(int); ok {
				row[j] = int64(n)
			}
		}
	}
	return rows
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

// pgIdent double-quotes an identifier, escaping embedded quotes.
func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
