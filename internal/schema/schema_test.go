package schema

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"registry/pkg/records"
)

const sampleSchema = `
tables:
  investors:
    columns:
      Account ID:
        required: true
      First Name:
        required: true
      Suburb:
        required: false
  registry:
    columns:
      Investor ID:
        required: true
`

func writeSchema(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(sampleSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRequired(t *testing.T) {
	s, err := Load(writeSchema(t))
	if err != nil {
		t.Fatal(err)
	}
	got := s.Required("investors")
	want := []string{"Account ID", "First Name"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Required = %v, want %v", got, want)
	}
	if got := s.Required("unknown"); len(got) != 0 {
		t.Fatalf("unknown table should have no required columns, got %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing schema file")
	}
}

func TestBackfill(t *testing.T) {
	tbl := records.NewTable("A", "B")
	tbl.Append(records.Record{"A": "kept", "B": ""})
	tbl.Append(records.Record{"A": "  ", "B": "x"})

	Backfill(tbl, []string{"A", "B", "C"}, "NOT AVAILABLE")

	// Absent required column C is declared and filled.
	if !tbl.HasColumn("C") {
		t.Fatal("absent required column must be declared")
	}
	for i := 0; i < tbl.Len(); i++ {
		for _, c := range []string{"A", "B", "C"} {
			v := tbl.Get(i, c)
			if v == "" {
				t.Errorf("row %d col %s still empty after backfill", i, c)
			}
		}
	}
	if got := tbl.Get(0, "A"); got != "kept" {
		t.Errorf("non-empty value overwritten: %q", got)
	}
	if got := tbl.Get(1, "A"); got != "NOT AVAILABLE" {
		t.Errorf("whitespace-only value = %q, want placeholder", got)
	}
}
