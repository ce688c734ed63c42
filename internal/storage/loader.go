package storage

import (
	"context"
	"fmt"

	"registry/pkg/records"
)

// LoadTable writes every row of t into repo in batches of batchSize,
// returning the total number of rows reported as inserted. Rows are aligned
// to the repository's configured column order via cfg.Columns, with absent
// cells emitted as empty strings.
//
// The whole table is already in memory by contract, so batching here only
// bounds per-round-trip payload size, not peak memory.
func LoadTable(ctx context.Context, repo Repository, cfg Config, t *records.Table, batchSize int) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("storage: batchSize must be > 0")
	}

	var total int64
	batch := make([][]any, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := repo.CopyFrom(ctx, batch)
		total += n
		batch = batch[:0]
		return err
	}

	for i := 0; i < t.Len(); i++ {
		row := make([]any, len(cfg.Columns))
		for j, c := range cfg.Columns {
			row[j] = t.Get(i, c)
		}
		batch = append(batch, row)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}
