package program

import (
	"slices"

	"github.com/matzehuels/fiberflow/pkg/errors"
)

// LoopOrder is the global loop nest: ranks listed outermost first.
type LoopOrder struct {
	ranks []string
	pos   map[string]int
	part  *Partitioning
}

func newLoopOrder(ranks []string, part *Partitioning) LoopOrder {
	return LoopOrder{
		ranks: slices.Clone(ranks),
		pos:   posMap(ranks),
		part:  part,
	}
}

// Ranks returns the loop order. The returned slice is a copy.
func (lo LoopOrder) Ranks() []string { return slices.Clone(lo.ranks) }

// Len returns the loop nest depth.
func (lo LoopOrder) Len() int { return len(lo.ranks) }

// Position returns the nesting depth of rank, 0 being outermost.
func (lo LoopOrder) Position(rank string) (int, bool) {
	p, ok := lo.pos[rank]
	return p, ok
}

// Key returns the sort key of rank. Ranks in the loop order sort by their
// position. A partitioned rank not yet split sorts where the outermost of
// its final ranks sits, so "K" lands where "K1" will be iterated.
func (lo LoopOrder) Key(rank string) (int, error) {
	if k, ok := lo.key(rank); ok {
		return k, nil
	}
	return 0, errors.New(errors.ErrCodeRankNotFound, "rank %s does not appear in the loop order %v", rank, lo.ranks)
}

func (lo LoopOrder) key(rank string) (int, bool) {
	if p, ok := lo.pos[rank]; ok {
		return p, true
	}
	if lo.part == nil {
		return 0, false
	}
	names, err := lo.part.PartitionNames(rank, true)
	if err != nil {
		return 0, false
	}
	key := -1
	for _, n := range names {
		if p, ok := lo.pos[n]; ok && (key < 0 || p < key) {
			key = p
		}
	}
	return key, key >= 0
}

// Apply reorders the cursor's pending ranks to follow the loop order.
// Consumed ranks stay in place and only the ranks the tensor actually has
// are reordered. The sort is stable.
func (lo LoopOrder) Apply(c Cursor) (Cursor, error) {
	pending := c.Pending()
	keys := make(map[string]int, len(pending))
	for _, r := range pending {
		k, ok := lo.key(r)
		if !ok {
			return c, errors.New(errors.ErrCodeRankNotFound, "tensor %s: rank %s does not appear in the loop order %v", c, r, lo.ranks)
		}
		keys[r] = k
	}
	slices.SortStableFunc(pending, func(a, b string) int { return keys[a] - keys[b] })
	return c.withPending(pending), nil
}

func posMap(vals []string) map[string]int {
	m := make(map[string]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}
