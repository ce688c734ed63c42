// Package mysql implements a MySQL-backed sink using database/sql and the
// go-sql-driver. Batches are written as single multi-row INSERT statements,
// which is the driver's most efficient bulk path short of LOAD DATA.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// Config holds MySQL sink configuration.
type Config struct {
	DSN     string   // e.g. "user:pass@tcp(localhost:3306)/registry"
	Table   string   // destination table name
	Columns []string // ordered destination column list
}

// Repository is a MySQL-backed sink.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a MySQL connection and fails fast on invalid DSNs.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { db.Close() }, nil
}

// EnsureTable creates the destination table with TEXT columns when missing.
func (r *Repository) EnsureTable(ctx context.Context) error {
	cols := make([]string, len(r.cfg.Columns))
	for i, c := range r.cfg.Columns {
		cols[i] = quoteIdent(c) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(r.cfg.Table), strings.Join(cols, ", "))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mysql: ensure table %s: %w", r.cfg.Table, err)
	}
	return nil
}

// CopyFrom writes the rows as one multi-row INSERT.
func (r *Repository) CopyFrom(ctx context.Context, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ncols := len(r.cfg.Columns)
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", ncols), ",") + ")"

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(r.cfg.Table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoteAll(r.cfg.Columns), ", "))
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*ncols)
	for i, row := range rows {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(tuple)
		args = append(args, row...)
	}

	res, err := r.db.ExecContext(ctx, sb.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("mysql: insert into %s: %w", r.cfg.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return int64(len(rows)), nil
	}
	return n, nil
}

// Close releases the database handle.
func (r *Repository) Close() { r.db.Close() }

func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

func quoteAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = quoteIdent(id)
	}
	return out
}
