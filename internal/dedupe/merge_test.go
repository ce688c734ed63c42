package dedupe

import (
	"strconv"
	"testing"

	"registry/pkg/records"
)

var testMergeCols = []string{
	"First Name", "Phone Number", "Date of Birth", "Address Line",
	"Tax Identification Number", "Email",
}

var testOutCols = append([]string{IDColumn}, testMergeCols...)

func row(phone, dob, addr, tax, email string) records.Record {
	return records.Record{
		"Phone Number":              phone,
		"Date of Birth":             dob,
		"Address Line":              addr,
		"Tax Identification Number": tax,
		"Email":                     email,
	}
}

func table(rows ...records.Record) *records.Table {
	t := records.NewTable(testMergeCols...)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func merge(t *records.Table) *records.Table {
	return Merge(t, Options{MergeColumns: testMergeCols, OutputColumns: testOutCols})
}

func TestThreeOfFiveLinking(t *testing.T) {
	// Row0-Row1 share phone+dob+address (3 fields): linked.
	// Row1-Row2 share only tax+email (2 fields): not directly linked, and no
	// intermediate row links them transitively.
	in := table(
		row("0211234567", "1980-01-01", "12 Park Ave", "", ""),
		row("0211234567", "1980-01-01", "12 Park Ave", "123456789", "jane@x.com"),
		row("", "", "", "123456789", "jane@x.com"),
	)
	out := merge(in)

	if out.Len() != 2 {
		t.Fatalf("expected 2 merged records, got %d", out.Len())
	}
	// Cluster {0,1}: survivor is row1 (5 non-empty vs 3); tax and email come
	// from the survivor.
	if got := out.Get(0, "Tax Identification Number"); got != "123456789" {
		t.Errorf("merged tax = %q, want survivor value", got)
	}
	if got := out.Get(0, "Email"); got != "jane@x.com" {
		t.Errorf("merged email = %q, want survivor value", got)
	}
	// Row2 stays its own cluster.
	if got := out.Get(1, "Email"); got != "jane@x.com" {
		t.Errorf("second cluster email = %q", got)
	}
	if got := out.Get(1, "Phone Number"); got != "" {
		t.Errorf("second cluster phone = %q, want empty", got)
	}
}

func TestTwoAgreementsNeverLink(t *testing.T) {
	in := table(
		row("0211111111", "1980-01-01", "", "", ""),
		row("0211111111", "1980-01-01", "99 Other St", "", ""),
	)
	out := merge(in)
	if out.Len() != 2 {
		t.Fatalf("2-field agreement must not link: got %d records", out.Len())
	}
}

func TestTransitiveClustering(t *testing.T) {
	// A links B (phone+dob+address), B links C (dob+tax+email), but A and C
	// agree on nothing beyond dob. All three must co-cluster.
	in := table(
		row("0211234567", "1980-01-01", "12 Park Ave", "", ""),
		row("0211234567", "1980-01-01", "12 Park Ave", "123456789", "jane@x.com"),
		row("", "1980-01-01", "", "123456789", "jane@x.com"),
	)
	out := merge(in)
	if out.Len() != 1 {
		t.Fatalf("expected a single transitive cluster, got %d records", out.Len())
	}
}

func TestAbsentFieldsNeverCount(t *testing.T) {
	// Three empty fields each must not contribute to the threshold.
	in := table(
		row("", "", "", "", "a@x.com"),
		row("", "", "", "", "a@x.com"),
	)
	out := merge(in)
	if out.Len() != 2 {
		t.Fatalf("absent fields counted toward the threshold: got %d records", out.Len())
	}
}

func TestKeyNormalizationLinksVariants(t *testing.T) {
	// Address and email differ only in case/punctuation; tax differs only in
	// separators. Normalized keys must still agree.
	in := table(
		row("", "", "12 Park Ave.", "123-456-789", "JANE@X.COM"),
		row("", "", "12 park ave", "123456789", "jane@x.com "),
	)
	out := merge(in)
	if out.Len() != 1 {
		t.Fatalf("normalized keys should link the rows: got %d records", out.Len())
	}
}

func TestPartitionProperty(t *testing.T) {
	in := table(
		row("0211111111", "1980-01-01", "1 A St", "", ""),
		row("0211111111", "1980-01-01", "1 A St", "111", ""),
		row("0222222222", "1990-02-02", "2 B St", "", "b@x.com"),
		row("", "", "", "", ""),
		row("0222222222", "1990-02-02", "2 B St", "", ""),
	)
	out := merge(in)

	// Clusters partition the input: {0,1}, {2,4}, {3}.
	if out.Len() != 3 {
		t.Fatalf("expected 3 clusters, got %d", out.Len())
	}
	// Identifiers are unique integers 1..N with no gaps, in emission order.
	for i := 0; i < out.Len(); i++ {
		if got := out.Get(i, IDColumn); got != strconv.Itoa(i+1) {
			t.Errorf("row %d: %s = %q, want %q", i, IDColumn, got, strconv.Itoa(i+1))
		}
	}
}

func TestSurvivorTieBreaksToEarliestRow(t *testing.T) {
	// Equal completeness scores: the earlier row must survive.
	r0 := row("0211234567", "1980-01-01", "12 Park Ave", "", "")
	r0["First Name"] = "Janet"
	r1 := row("0211234567", "1980-01-01", "12 Park Ave", "", "")
	r1["First Name"] = "Jane"
	in := table(r0, r1)

	out := merge(in)
	if out.Len() != 1 {
		t.Fatalf("expected 1 cluster, got %d", out.Len())
	}
	if got := out.Get(0, "First Name"); got != "Janet" {
		t.Errorf("survivor = %q, want earliest row on tie", got)
	}
}

func TestFieldFillFromNonSurvivors(t *testing.T) {
	// Survivor lacks a value; the first non-empty value in ascending row
	// order fills it.
	r0 := row("0211234567", "1980-01-01", "12 Park Ave", "", "")
	r1 := row("0211234567", "1980-01-01", "12 Park Ave", "111", "jane@x.com")
	r1["First Name"] = "" // survivor (score 5) has no name
	r2 := row("0211234567", "1980-01-01", "12 Park Ave", "", "")
	r2["First Name"] = "Jane"
	in := table(r0, r1, r2)

	out := merge(in)
	if out.Len() != 1 {
		t.Fatalf("expected 1 cluster, got %d", out.Len())
	}
	if got := out.Get(0, "First Name"); got != "Jane" {
		t.Errorf("filled name = %q, want first non-empty across members", got)
	}
}

func TestMissingColumnsTreatedAsEmpty(t *testing.T) {
	// A table without any of the designated columns merges to singletons
	// without error.
	in := records.NewTable("Unrelated")
	in.Append(records.Record{"Unrelated": "x"})
	in.Append(records.Record{"Unrelated": "y"})

	out := merge(in)
	if out.Len() != 2 {
		t.Fatalf("expected 2 singleton clusters, got %d", out.Len())
	}
	if got := out.Get(0, "Email"); got != "" {
		t.Errorf("absent column should emit empty, got %q", got)
	}
}

func TestEmptyInput(t *testing.T) {
	out := merge(records.NewTable(testMergeCols...))
	if out.Len() != 0 {
		t.Fatalf("empty input must yield empty output, got %d rows", out.Len())
	}
	if !out.HasColumn(IDColumn) {
		t.Error("output must still declare the identifier column")
	}
}

func TestDSUPathCompressionAndChainUnion(t *testing.T) {
	d := newDSU(5)
	d.union(0, 1)
	d.union(1, 2)
	d.union(3, 4)
	if d.find(2) != d.find(0) {
		t.Error("0..2 should share a root")
	}
	if d.find(4) != d.find(3) {
		t.Error("3,4 should share a root")
	}
	if d.find(0) == d.find(3) {
		t.Error("separate components must keep separate roots")
	}
	// First-encountered side survives as root.
	if got := d.find(1); got != 0 {
		t.Errorf("root = %d, want first-encountered 0", got)
	}
}
