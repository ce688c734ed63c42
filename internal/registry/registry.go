// Package registry builds the empty transaction-ledger scaffold from the
// merged investors table. The scaffold carries one row per investor with all
// transactional fields blank; required columns are backfilled with this
// stage's own placeholder so downstream consumers can tell "not yet recorded"
// from "computed as empty".
package registry

import (
	"strings"

	"registry/pkg/records"
)

// Placeholder marks required registry columns with no data. Distinct from the
// merged-table literal by design.
const Placeholder = "NO DATA AVAILABLE"

// Columns is the registry scaffold column order.
var Columns = []string{
	"Fund Name", "Investor ID", "Investor Name",
	"Transaction Date", "Unit Change", "Unit Price", "Transaction Type",
}

// Build returns the scaffold table: one row per merged investor, keyed by
// Account ID, investor name joined from first and last name.
func Build(investors *records.Table) *records.Table {
	out := records.NewTable(Columns...)
	for i := 0; i < investors.Len(); i++ {
		name := strings.TrimSpace(investors.Get(i, "First Name") + " " + investors.Get(i, "Last Name"))
		out.Append(records.Record{
			"Fund Name":        "",
			"Investor ID":      investors.Get(i, "Account ID"),
			"Investor Name":    name,
			"Transaction Date": "",
			"Unit Change":      "",
			"Unit Price":       "",
			"Transaction Type": "",
		})
	}
	return out
}
