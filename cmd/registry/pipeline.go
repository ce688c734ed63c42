// Stage orchestration for the registry pipeline. This file keeps the CLI
// layer thin: it reads and writes the CSV artifacts between stages, calls
// into the stage packages, and never imports database drivers directly.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"registry/internal/config"
	"registry/internal/dedupe"
	"registry/internal/ingest"
	"registry/internal/metrics"
	csvparser "registry/internal/parser/csv"
	"registry/internal/registry"
	"registry/internal/schema"
	"registry/internal/standardize"
	"registry/internal/storage"
	"registry/pkg/records"
)

// Function variables used to introduce test seams. In production these point
// to real implementations; tests can override them.
var (
	newRepositoryFn = storage.New

	readWorkbookFn = ingest.ReadWorkbook
)

type pipeline struct {
	cfg config.Config
	log zerolog.Logger
}

// run executes the named stage, or every stage in order for "all". Each
// stage reads its input artifact fresh from disk, so stages can also be run
// one at a time across separate invocations.
func (p *pipeline) run(ctx context.Context, stage string) error {
	stages := map[string]func(context.Context) error{
		"ingest":      p.runIngest,
		"standardize": p.runStandardize,
		"merge":       p.runMerge,
		"registry":    p.runRegistry,
	}

	if stage == "all" {
		for _, name := range []string{"ingest", "standardize", "merge", "registry"} {
			if err := p.timed(ctx, name, stages[name]); err != nil {
				return err
			}
		}
		return nil
	}

	fn, ok := stages[stage]
	if !ok {
		return fmt.Errorf("unknown stage %q", stage)
	}
	return p.timed(ctx, stage, fn)
}

// timed wraps a stage with duration metrics and logging.
func (p *pipeline) timed(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	metrics.RecordStage(p.cfg.Job, name, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.log.Info().Str("stage", name).Dur("elapsed", time.Since(start)).Msg("stage done")
	return nil
}

// runIngest extracts the first populated workbook table and writes raw CSV.
func (p *pipeline) runIngest(ctx context.Context) error {
	if _, err := os.Stat(p.cfg.Paths.ExcelInput); err != nil {
		return fmt.Errorf("workbook not found: %s", p.cfg.Paths.ExcelInput)
	}
	t, err := readWorkbookFn(p.cfg.Paths.ExcelInput, p.cfg.HeaderRow)
	if err != nil {
		return err
	}
	metrics.RecordRows(p.cfg.Job, "ingested", int64(t.Len()))
	p.log.Debug().Int("rows", t.Len()).Int("columns", len(t.Columns)).Msg("ingested workbook table")
	return csvparser.WriteFile(p.cfg.Paths.RawCSV, t)
}

// runStandardize normalizes the raw table into the standardized artifact.
func (p *pipeline) runStandardize(ctx context.Context) error {
	raw, err := p.readCSV(p.cfg.Paths.RawCSV)
	if err != nil {
		return err
	}
	out := standardize.Apply(raw, standardize.Options{
		ColumnMap:   p.cfg.Columns,
		DropLastRow: p.cfg.Drop.Strategy == "last_row",
	})
	metrics.RecordRows(p.cfg.Job, "standardized", int64(out.Len()))
	return csvparser.WriteFile(p.cfg.Paths.StandardizedCSV, out)
}

// runMerge deduplicates the standardized table, backfills required columns,
// and writes the merged investors artifact. When a storage sink is
// configured, the merged table is also loaded into the database.
func (p *pipeline) runMerge(ctx context.Context) error {
	in, err := p.readCSV(p.cfg.Paths.StandardizedCSV)
	if err != nil {
		return err
	}
	sch, err := schema.Load(p.cfg.Paths.SchemaFile)
	if err != nil {
		return err
	}

	merged := dedupe.Merge(in, dedupe.Options{
		MergeColumns:  standardize.MergeColumns,
		OutputColumns: standardize.OutputColumns,
	})
	schema.Backfill(merged, sch.Required("investors"), dedupe.Placeholder)

	metrics.RecordRows(p.cfg.Job, "merged", int64(merged.Len()))
	p.log.Info().Int("in", in.Len()).Int("out", merged.Len()).Msg("merged duplicate investors")

	if err := csvparser.WriteFile(p.cfg.Paths.MergedCSV, merged); err != nil {
		return err
	}
	return p.load(ctx, map[string]*records.Table{
		p.cfg.Storage.DB.InvestorsTable: merged,
	})
}

// runRegistry builds the transaction-ledger scaffold from the merged table.
func (p *pipeline) runRegistry(ctx context.Context) error {
	investors, err := p.readCSV(p.cfg.Paths.MergedCSV)
	if err != nil {
		return err
	}
	sch, err := schema.Load(p.cfg.Paths.SchemaFile)
	if err != nil {
		return err
	}

	reg := registry.Build(investors)
	schema.Backfill(reg, sch.Required("registry"), registry.Placeholder)

	if err := csvparser.WriteFile(p.cfg.Paths.RegistryCSV, reg); err != nil {
		return err
	}
	return p.load(ctx, map[string]*records.Table{
		p.cfg.Storage.DB.RegistryTable: reg,
	})
}

// readCSV loads an intermediate artifact. Skipped rows are surfaced as a
// metric and a log line rather than failing the run.
func (p *pipeline) readCSV(path string) (*records.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input CSV not found: %s", path)
	}
	defer f.Close()

	t, skipped, err := csvparser.NewParser(csvparser.Options{TrimSpace: true}).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if skipped > 0 {
		metrics.RecordRows(p.cfg.Job, "skipped", int64(skipped))
		p.log.Warn().Str("path", path).Int("skipped", skipped).Msg("skipped malformed rows")
	}
	return t, nil
}

// load writes the given tables into the configured database sink, one
// repository per destination table, loading concurrently. A run without a
// configured sink is a no-op.
func (p *pipeline) load(ctx context.Context, tables map[string]*records.Table) error {
	if p.cfg.Storage.Kind == "" {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for table, t := range tables {
		table, t := table, t
		g.Go(func() error {
			cfg := storage.Config{
				Kind:    p.cfg.Storage.Kind,
				DSN:     p.cfg.Storage.DB.DSN,
				Table:   table,
				Columns: t.Columns,
			}
			repo, err := newRepositoryFn(ctx, cfg)
			if err != nil {
				return fmt.Errorf("open %s sink: %w", p.cfg.Storage.Kind, err)
			}
			defer repo.Close()

			if p.cfg.Storage.DB.AutoCreateTable {
				if err := repo.EnsureTable(ctx); err != nil {
					return err
				}
			}
			n, err := storage.LoadTable(ctx, repo, cfg, t, p.cfg.Storage.DB.BatchSize)
			if err != nil {
				return fmt.Errorf("load %s: %w", table, err)
			}
			metrics.RecordRows(p.cfg.Job, "loaded", n)
			p.log.Info().Str("table", table).Int64("rows", n).Msg("loaded into sink")
			return nil
		})
	}
	return g.Wait()
}
