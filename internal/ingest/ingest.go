// Package ingest extracts the first populated table from a multi-sheet Excel
// workbook. Sheets are scanned in workbook order; the configured header row
// (1-based) names the columns and everything below it is data. Fully empty
// rows and columns are dropped.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"registry/pkg/records"
)

// ErrNoTable is returned when no sheet contains a usable table.
var ErrNoTable = errors.New("no valid table found in workbook")

// ReadWorkbook opens the workbook at path and returns the first populated
// table. headerRow is 1-based; sheets with fewer rows are skipped.
func ReadWorkbook(path string, headerRow int) (*records.Table, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) < headerRow {
			continue
		}
		t := tableFrom(rows, headerRow)
		if t != nil {
			return t, nil
		}
	}
	return nil, ErrNoTable
}

// tableFrom builds a table from raw sheet rows, or nil when the sheet yields
// no data. Cell rows from excelize have ragged widths (trailing empties are
// omitted), so every row is padded to the header width.
func tableFrom(rows [][]string, headerRow int) *records.Table {
	header := rows[headerRow-1]
	width := len(header)
	for _, row := range rows[headerRow:] {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil
	}

	headers := make([]string, width)
	for i := 0; i < width; i++ {
		if i < len(header) {
			headers[i] = strings.TrimSpace(header[i])
		}
	}

	// Collect non-empty data rows and track which columns carry any data.
	var data [][]string
	used := make([]bool, width)
	for _, row := range rows[headerRow:] {
		padded := make([]string, width)
		empty := true
		for i := 0; i < width && i < len(row); i++ {
			padded[i] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				empty = false
				used[i] = true
			}
		}
		if !empty {
			data = append(data, padded)
		}
	}
	if len(data) == 0 {
		return nil
	}

	// Drop all-empty columns, keeping the original column order.
	var cols []string
	var keep []int
	for i := 0; i < width; i++ {
		if used[i] {
			name := headers[i]
			if name == "" {
				name = fmt.Sprintf("col_%d", i)
			}
			cols = append(cols, name)
			keep = append(keep, i)
		}
	}

	t := records.NewTable(cols...)
	for _, row := range data {
		rec := make(records.Record, len(keep))
		for j, i := range keep {
			rec[cols[j]] = row[i]
		}
		t.Append(rec)
	}
	return t
}
