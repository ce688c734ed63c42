// Package records defines the in-memory table model shared by every pipeline
// stage. Values are always plain strings; the empty string means "no data".
// There is no null marker anywhere in the pipeline, which keeps stage
// contracts trivial: a field is either present and non-empty, or absent.
package records

import "strings"

// Record maps column names to string values for a single row.
type Record map[string]string

// Table is a whole-in-memory table with an explicit column order. Rows are
// kept in original input order; the row index is the stable identity used by
// the merge engine, so Rows must never be reordered in place.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable returns an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether col is declared in the table's column set.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Get returns the value at (row, col). A declared-but-absent column, an
// out-of-range row, or a missing cell all yield "" rather than an error, so
// callers never need to branch on column presence.
func (t *Table) Get(row int, col string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][col]
}

// Set assigns the value at (row, col). Rows out of range are ignored.
func (t *Table) Set(row int, col, val string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	if t.Rows[row] == nil {
		t.Rows[row] = Record{}
	}
	t.Rows[row][col] = val
}

// Append adds a row. Cells for undeclared columns are kept; they simply are
// not emitted when the table is written out.
func (t *Table) Append(r Record) {
	if r == nil {
		r = Record{}
	}
	t.Rows = append(t.Rows, r)
}

// EnsureColumns declares any missing columns, appending them to the column
// order. Existing rows synthesize "" for the new columns on access, so no row
// rewrite is needed.
func (t *Table) EnsureColumns(cols ...string) {
	for _, c := range cols {
		if !t.HasColumn(c) {
			t.Columns = append(t.Columns, c)
		}
	}
}

// Clean returns the value trimmed of surrounding whitespace. Blank or
// whitespace-only input collapses to "".
func Clean(s string) string { return strings.TrimSpace(s) }
