package dedupe

// dsu is a disjoint-set union over row indices, stored as an index-addressed
// parent arena rather than pointer-linked nodes. find applies path
// compression (grandparent halving); union attaches root(b) under root(a),
// so the first-encountered side always survives as the root. No rank or size
// balancing: with path compression the structure stays near-flat and the
// asymmetry keeps cluster roots deterministic.
type dsu struct {
	parent []int
}

func newDSU(n int) *dsu {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &dsu{parent: p}
}

func (d *dsu) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *dsu) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra != rb {
		d.parent[rb] = ra
	}
}
