// Package postgres implements a Postgres sink using pgx v5. Rows are loaded
// with the COPY protocol directly into the destination table; every pipeline
// run is a full rebuild, so no staging/upsert step is needed.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres sink configuration.
type Config struct {
	DSN     string   // connection string for pgxpool
	Table   string   // destination table, e.g. "public.investors"
	Columns []string // ordered columns for COPY
}

// Repository is a Postgres-backed sink.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a close function for
// cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// EnsureTable creates the destination table with text columns when missing.
func (r *Repository) EnsureTable(ctx context.Context) error {
	cols := make([]string, len(r.cfg.Columns))
	for i, c := range r.cfg.Columns {
		cols[i] = pgIdent(c) + " text"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgFQN(r.cfg.Table), strings.Join(cols, ", "))
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", r.cfg.Table, err)
	}
	return nil
}

// CopyFrom bulk-loads rows via the COPY protocol and returns the count
// reported by the server.
func (r *Repository) CopyFrom(ctx context.Context, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, tableIdent(r.cfg.Table), r.cfg.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy into %s: %s (%s)", r.cfg.Table, pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy into %s: %w", r.cfg.Table, err)
	}
	return n, nil
}

// Close releases the pool.
func (r *Repository) Close() { r.pool.Close() }

// tableIdent splits a possibly schema-qualified name into a pgx.Identifier.
func tableIdent(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// pgFQN quotes a possibly schema-qualified name like "public.investors" to
// "public"."investors".
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
