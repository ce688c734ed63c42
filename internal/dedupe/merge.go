package dedupe

import (
	"strconv"

	"registry/pkg/records"
)

// Placeholder is substituted for empty required columns of the merged
// investors table. The registry scaffold uses its own, distinct literal; the
// two must never be conflated because downstream consumers key on them.
const Placeholder = "NOT AVAILABLE"

// The five standardized columns that feed match-key derivation.
const (
	colPhone   = "Phone Number"
	colDOB     = "Date of Birth"
	colAddress = "Address Line"
	colTax     = "Tax Identification Number"
	colEmail   = "Email"
)

// IDColumn is the sequential identifier assigned to each merged record.
const IDColumn = "Account ID"

// Options configures a merge run. The column lists come from process startup
// configuration and are passed in explicitly; the engine holds no ambient
// state between runs.
type Options struct {
	// MergeColumns are the fields consolidated across a cluster and counted
	// by the completeness score.
	MergeColumns []string

	// OutputColumns is the full output column order, including IDColumn.
	// Columns named here but absent from the input are emitted empty.
	OutputColumns []string
}

// Merge clusters the standardized table by 3-of-5 exact key agreement and
// returns one consolidated row per cluster, with IDColumn assigned 1..N in
// cluster-emission order.
//
// Clusters partition the input: every row belongs to exactly one cluster.
// Rows may co-cluster transitively through an intermediate row without
// agreeing directly; that recall-favoring behavior is deliberate.
//
// The whole table is held in memory and processed synchronously in one pass;
// nothing survives the run. Emission order is ascending order of each
// cluster's first (lowest) original row index, never map iteration order.
func Merge(in *records.Table, opt Options) *records.Table {
	n := in.Len()

	d := newDSU(n)
	blocks := make(blockIndex)
	for i := 0; i < n; i++ {
		blocks.add(i, deriveKeys(
			in.Get(i, colPhone),
			in.Get(i, colDOB),
			in.Get(i, colAddress),
			in.Get(i, colTax),
			in.Get(i, colEmail),
		))
	}
	blocks.unionInto(d)

	clusters := clustersOf(d, n)

	out := records.NewTable(opt.OutputColumns...)
	for ci, members := range clusters {
		rec := mergeCluster(in, members, opt.MergeColumns)
		rec[IDColumn] = strconv.Itoa(ci + 1)
		out.Append(rec)
	}
	return out
}

// clustersOf groups row indices by their union-find root. Scanning rows in
// ascending index order makes both the per-cluster member order and the
// cluster emission order explicit and stable.
func clustersOf(d *dsu, n int) [][]int {
	byRoot := make(map[int]int, n) // root -> position in result
	var clusters [][]int
	for i := 0; i < n; i++ {
		root := d.find(i)
		pos, ok := byRoot[root]
		if !ok {
			pos = len(clusters)
			byRoot[root] = pos
			clusters = append(clusters, nil)
		}
		clusters[pos] = append(clusters[pos], i)
	}
	return clusters
}

// mergeCluster consolidates one cluster. The survivor is the member with the
// highest completeness score over mergeCols; on a tie the earliest original
// index wins (strict greater-than comparison while scanning ascending
// members). Each output field takes the survivor's value when non-empty,
// otherwise the first non-empty value among members in ascending index order,
// otherwise "".
func mergeCluster(in *records.Table, members []int, mergeCols []string) records.Record {
	survivor := members[0]
	best := -1
	for _, row := range members {
		score := 0
		for _, c := range mergeCols {
			if records.Clean(in.Get(row, c)) != "" {
				score++
			}
		}
		if score > best {
			best = score
			survivor = row
		}
	}

	rec := make(records.Record, len(mergeCols))
	for _, c := range mergeCols {
		v := records.Clean(in.Get(survivor, c))
		if v == "" {
			v = firstNonEmpty(in, members, c)
		}
		rec[c] = v
	}
	return rec
}

// firstNonEmpty scans cluster members in ascending original order and returns
// the first non-empty value for col, else "".
func firstNonEmpty(in *records.Table, members []int, col string) string {
	for _, row := range members {
		if v := records.Clean(in.Get(row, col)); v != "" {
			return v
		}
	}
	return ""
}
