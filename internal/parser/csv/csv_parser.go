// Package csv reads and writes the pipeline's intermediate CSV artifacts.
// Values are plain strings; empty cells stay empty strings. Rows whose width
// does not match the header are skipped (soft-fail) and counted rather than
// aborting the run.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"registry/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures parsing. All fields are optional.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// TrimSpace trims surrounding whitespace from every cell.
	TrimSpace bool
}

// Parser parses CSV input into a records.Table. Safe to reuse across inputs;
// not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse consumes CSV from r. The first row is the header (trimmed, BOM
// stripped); remaining rows become records keyed by header name. It returns
// the table and the number of rows skipped for parse errors or width
// mismatches.
func (p *Parser) Parse(r io.Reader) (*records.Table, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h)

	t := records.NewTable(headers...)
	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(row) != len(headers) {
			skipped++
			continue
		}
		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[headers[i]] = val
		}
		t.Append(rec)
	}
	return t, skipped, nil
}

// normalizeHeaders strips a UTF-8 BOM from the first header cell and trims
// every cell. The BOM comes off first: TrimSpace does not treat U+FEFF as
// whitespace, so trimming first would leave any space between the BOM and the
// header text in place.
func normalizeHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		res[i] = strings.TrimSpace(col)
	}
	return res
}
