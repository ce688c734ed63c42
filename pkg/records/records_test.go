package records

import "testing"

func TestGetTolerance(t *testing.T) {
	tbl := NewTable("A", "B")
	tbl.Append(Record{"A": "1"})

	if got := tbl.Get(0, "A"); got != "1" {
		t.Errorf("Get(0, A) = %q", got)
	}
	if got := tbl.Get(0, "B"); got != "" {
		t.Errorf("missing cell = %q, want empty", got)
	}
	if got := tbl.Get(0, "Nope"); got != "" {
		t.Errorf("undeclared column = %q, want empty", got)
	}
	if got := tbl.Get(5, "A"); got != "" {
		t.Errorf("out-of-range row = %q, want empty", got)
	}
	if got := tbl.Get(-1, "A"); got != "" {
		t.Errorf("negative row = %q, want empty", got)
	}
}

func TestSetAndAppendNil(t *testing.T) {
	tbl := NewTable("A")
	tbl.Append(nil)
	tbl.Set(0, "A", "x")
	if got := tbl.Get(0, "A"); got != "x" {
		t.Errorf("Set on nil-appended row = %q", got)
	}
	tbl.Set(9, "A", "ignored") // out of range: no-op
	if tbl.Len() != 1 {
		t.Errorf("Len = %d", tbl.Len())
	}
}

func TestEnsureColumns(t *testing.T) {
	tbl := NewTable("A")
	tbl.Append(Record{"A": "1"})
	tbl.EnsureColumns("A", "B")

	if len(tbl.Columns) != 2 || tbl.Columns[1] != "B" {
		t.Fatalf("Columns = %v", tbl.Columns)
	}
	if got := tbl.Get(0, "B"); got != "" {
		t.Errorf("new column on old row = %q, want empty", got)
	}
}

func TestClean(t *testing.T) {
	if got := Clean("  x "); got != "x" {
		t.Errorf("Clean = %q", got)
	}
	if got := Clean(" \t "); got != "" {
		t.Errorf("Clean(whitespace) = %q", got)
	}
}
