package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"registry/internal/config"
	csvparser "registry/internal/parser/csv"
	"registry/internal/storage"
	"registry/pkg/records"
)

const testSchema = `
tables:
  investors:
    columns:
      Account ID:
        required: true
      First Name:
        required: true
      Email:
        required: true
      Tax Identification Number:
        required: true
  registry:
    columns:
      Fund Name:
        required: true
      Investor ID:
        required: true
      Investor Name:
        required: true
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	schemaPath := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(schemaPath, []byte(testSchema), 0o644); err != nil {
		t.Fatal(err)
	}

	return config.Config{
		Job: "test",
		Paths: config.Paths{
			ExcelInput:      filepath.Join(dir, "in.xlsx"),
			RawCSV:          filepath.Join(dir, "raw.csv"),
			StandardizedCSV: filepath.Join(dir, "standardized.csv"),
			MergedCSV:       filepath.Join(dir, "merged.csv"),
			RegistryCSV:     filepath.Join(dir, "registry.csv"),
			SchemaFile:      schemaPath,
		},
		HeaderRow: 1,
		Storage:   config.Storage{DB: config.DBConfig{BatchSize: 100}},
	}
}

func newTestPipeline(cfg config.Config) *pipeline {
	return &pipeline{cfg: cfg, log: zerolog.Nop()}
}

func writeStandardized(t *testing.T, path string) {
	t.Helper()
	tbl := records.NewTable(
		"First Name", "Last Name", "Email", "Phone Number",
		"Date of Birth", "Address Line", "Tax Identification Number",
	)
	// Rows 0 and 1 agree on phone, dob, and address: one investor.
	tbl.Append(records.Record{
		"First Name": "Jane", "Phone Number": "211234567",
		"Date of Birth": "1980-01-01", "Address Line": "12 Park Avenue",
	})
	tbl.Append(records.Record{
		"First Name": "Jane", "Last Name": "Smith", "Email": "jane@x.com",
		"Phone Number": "211234567", "Date of Birth": "1980-01-01",
		"Address Line": "12 Park Avenue", "Tax Identification Number": "123456789",
	})
	tbl.Append(records.Record{
		"First Name": "Bob", "Email": "bob@x.com", "Phone Number": "998877",
	})
	if err := csvparser.WriteFile(path, tbl); err != nil {
		t.Fatal(err)
	}
}

func readArtifact(t *testing.T, path string) *records.Table {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	tbl, _, err := csvparser.NewParser(csvparser.Options{}).Parse(f)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestRunMergeAndRegistry(t *testing.T) {
	cfg := testConfig(t)
	writeStandardized(t, cfg.Paths.StandardizedCSV)
	p := newTestPipeline(cfg)

	if err := p.run(context.Background(), "merge"); err != nil {
		t.Fatal(err)
	}

	merged := readArtifact(t, cfg.Paths.MergedCSV)
	if merged.Len() != 2 {
		t.Fatalf("merged rows = %d, want 2", merged.Len())
	}
	for i := 0; i < merged.Len(); i++ {
		if got := merged.Get(i, "Account ID"); got != strconv.Itoa(i+1) {
			t.Errorf("row %d Account ID = %q", i, got)
		}
	}
	// Values consolidated across the duplicate pair.
	if got := merged.Get(0, "Email"); got != "jane@x.com" {
		t.Errorf("merged email = %q", got)
	}
	// Required column missing from Bob's row gets the merge placeholder.
	if got := merged.Get(1, "Tax Identification Number"); got != "NOT AVAILABLE" {
		t.Errorf("backfilled tax = %q", got)
	}
	// Optional empty columns stay empty.
	if got := merged.Get(1, "Date of Birth"); got != "" {
		t.Errorf("optional empty column = %q", got)
	}

	if err := p.run(context.Background(), "registry"); err != nil {
		t.Fatal(err)
	}

	reg := readArtifact(t, cfg.Paths.RegistryCSV)
	if reg.Len() != 2 {
		t.Fatalf("registry rows = %d, want one per investor", reg.Len())
	}
	if got := reg.Get(0, "Investor Name"); got != "Jane Smith" {
		t.Errorf("investor name = %q", got)
	}
	if got := reg.Get(0, "Investor ID"); got != "1" {
		t.Errorf("investor id = %q", got)
	}
	// Required scaffold columns carry the registry placeholder, not the merge
	// one.
	if got := reg.Get(0, "Fund Name"); got != "NO DATA AVAILABLE" {
		t.Errorf("fund name = %q", got)
	}
	// Non-required scaffold columns stay empty.
	if got := reg.Get(0, "Unit Price"); got != "" {
		t.Errorf("unit price = %q", got)
	}
}

func TestRunIngestUsesWorkbookReader(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Paths.ExcelInput, []byte("stub"), 0o644); err != nil {
		t.Fatal(err)
	}

	orig := readWorkbookFn
	defer func() { readWorkbookFn = orig }()
	readWorkbookFn = func(path string, headerRow int) (*records.Table, error) {
		if path != cfg.Paths.ExcelInput || headerRow != 1 {
			t.Errorf("readWorkbookFn(%q, %d)", path, headerRow)
		}
		tbl := records.NewTable("Name")
		tbl.Append(records.Record{"Name": "jane"})
		return tbl, nil
	}

	if err := newTestPipeline(cfg).run(context.Background(), "ingest"); err != nil {
		t.Fatal(err)
	}
	raw := readArtifact(t, cfg.Paths.RawCSV)
	if raw.Len() != 1 || raw.Get(0, "Name") != "jane" {
		t.Fatalf("raw artifact = %v", raw.Rows)
	}
}

func TestRunIngestMissingWorkbook(t *testing.T) {
	cfg := testConfig(t)
	if err := newTestPipeline(cfg).run(context.Background(), "ingest"); err == nil {
		t.Fatal("expected error for missing workbook")
	}
}

func TestRunUnknownStage(t *testing.T) {
	if err := newTestPipeline(testConfig(t)).run(context.Background(), "upload"); err == nil {
		t.Fatal("expected error for unknown stage")
	}
}

func TestRunMergeMissingInput(t *testing.T) {
	cfg := testConfig(t)
	if err := newTestPipeline(cfg).run(context.Background(), "merge"); err == nil {
		t.Fatal("expected error when standardized artifact is absent")
	}
}

type sinkRepo struct {
	mu      sync.Mutex
	table   string
	ensured bool
	rows    int
}

type sinkFactory struct {
	mu    sync.Mutex
	repos []*sinkRepo
}

func (f *sinkFactory) new(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := &sinkRepo{table: cfg.Table}
	f.repos = append(f.repos, r)
	return r, nil
}

func (r *sinkRepo) EnsureTable(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensured = true
	return nil
}

func (r *sinkRepo) CopyFrom(ctx context.Context, rows [][]any) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows += len(rows)
	return int64(len(rows)), nil
}

func (r *sinkRepo) Close() {}

func TestRunMergeLoadsConfiguredSink(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = config.Storage{
		Kind: "postgres",
		DB: config.DBConfig{
			DSN:             "postgres://ignored",
			InvestorsTable:  "investors",
			RegistryTable:   "registry",
			BatchSize:       100,
			AutoCreateTable: true,
		},
	}
	writeStandardized(t, cfg.Paths.StandardizedCSV)

	factory := &sinkFactory{}
	orig := newRepositoryFn
	defer func() { newRepositoryFn = orig }()
	newRepositoryFn = factory.new

	if err := newTestPipeline(cfg).run(context.Background(), "merge"); err != nil {
		t.Fatal(err)
	}

	if len(factory.repos) != 1 {
		t.Fatalf("repos opened = %d, want 1", len(factory.repos))
	}
	repo := factory.repos[0]
	if repo.table != "investors" {
		t.Errorf("sink table = %q", repo.table)
	}
	if !repo.ensured {
		t.Error("auto_create_table did not ensure the table")
	}
	if repo.rows != 2 {
		t.Errorf("loaded rows = %d, want 2", repo.rows)
	}
}

func TestRunSkipsSinkWhenUnconfigured(t *testing.T) {
	cfg := testConfig(t)
	writeStandardized(t, cfg.Paths.StandardizedCSV)

	orig := newRepositoryFn
	defer func() { newRepositoryFn = orig }()
	newRepositoryFn = func(ctx context.Context, c storage.Config) (storage.Repository, error) {
		return nil, errors.New("sink must not be opened without a configured kind")
	}

	if err := newTestPipeline(cfg).run(context.Background(), "merge"); err != nil {
		t.Fatal(err)
	}
}
