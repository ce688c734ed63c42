package dedupe

import (
	"strings"

	"github.com/zeebo/xxh3"
)

// blockIndex groups row indices by 3-key signature. Two rows land in the same
// block only when they agree exactly on the same three tagged keys, which is
// the direct-link condition of the matcher. Block membership lists keep
// first-encountered (ascending row) order.
//
// Signatures are 128-bit xxh3 digests of the tag triple plus the three
// normalized values; at in-memory batch sizes the collision probability is
// negligible, and the map is never iterated in an order-sensitive way (union
// results are independent of block order).
type blockIndex map[xxh3.Uint128][]int

// signature hashes one ordered (tags, values) triple. Tags and values are
// separated by control bytes that cannot occur in normalized key values, so
// distinct triples cannot collide structurally.
func signature(a, b, c Key) xxh3.Uint128 {
	var sb strings.Builder
	sb.Grow(len(a.Value) + len(b.Value) + len(c.Value) + 8)
	sb.WriteByte(byte(a.Tag))
	sb.WriteByte(byte(b.Tag))
	sb.WriteByte(byte(c.Tag))
	sb.WriteByte(0x1f)
	sb.WriteString(a.Value)
	sb.WriteByte(0x1f)
	sb.WriteString(b.Value)
	sb.WriteByte(0x1f)
	sb.WriteString(c.Value)
	return xxh3.HashString128(sb.String())
}

// add enumerates every size-3 subset of the row's present keys in fixed tag
// order (at most C(5,3) = 10 subsets) and appends the row index to each
// subset's block.
func (bi blockIndex) add(row int, keys []Key) {
	for a := 0; a < len(keys); a++ {
		for b := a + 1; b < len(keys); b++ {
			for c := b + 1; c < len(keys); c++ {
				sig := signature(keys[a], keys[b], keys[c])
				bi[sig] = append(bi[sig], row)
			}
		}
	}
}

// unionInto chain-unions every block with two or more members: the first
// member absorbs each subsequent one, so all members of a block become
// connected regardless of union invocation order.
func (bi blockIndex) unionInto(d *dsu) {
	for _, members := range bi {
		for i := 1; i < len(members); i++ {
			d.union(members[0], members[i])
		}
	}
}
