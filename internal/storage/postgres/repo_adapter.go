// This adapter wires the Postgres backend into the storage-agnostic factory
// by registering a constructor at init time, so callers obtain a Repository
// via storage.New(...) without importing pgx directly.
package postgres

import (
	"context"

	"registry/internal/storage"
)

// wrappedRepo implements storage.Repository by delegating to the concrete
// *Repository while routing Close through the constructor's close function.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := NewRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
}
