// Package schema models the external table schema file (schema.yaml). The
// merge and registry stages consume only the per-table required-column set,
// which drives placeholder backfill of the final artifacts.
package schema

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"registry/pkg/records"
)

// Column holds per-column schema flags.
type Column struct {
	// Required marks columns that must never be empty in the emitted table;
	// empty values are overwritten with the stage's placeholder literal.
	Required bool `yaml:"required"`

	// Type is informational (e.g. "string", "date"); the pipeline itself is
	// all-strings and does not enforce it.
	Type string `yaml:"type"`
}

// Table is the schema for one logical table.
type Table struct {
	Columns map[string]Column `yaml:"columns"`
}

// Schema is the decoded schema file.
type Schema struct {
	Tables map[string]Table `yaml:"tables"`
}

// Load reads and decodes a schema YAML file.
func Load(path string) (*Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	var s Schema
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", path, err)
	}
	return &s, nil
}

// Required returns the required column names for table, sorted for
// deterministic iteration. An unknown table yields an empty list.
func (s *Schema) Required(table string) []string {
	cols := s.Tables[table].Columns
	out := make([]string, 0, len(cols))
	for name, meta := range cols {
		if meta.Required {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Backfill overwrites every empty value in the listed required columns with
// placeholder. A required column entirely absent from the table is declared
// first, so after Backfill no required column contains an empty value.
func Backfill(t *records.Table, required []string, placeholder string) {
	t.EnsureColumns(required...)
	for _, c := range required {
		for i := range t.Rows {
			if records.Clean(t.Get(i, c)) == "" {
				t.Set(i, c, placeholder)
			}
		}
	}
}
