package layout

import (
	"slices"
	"sort"
)

// orderLayers reduces edge crossings with an iterative median heuristic:
// each node is repositioned at the median fractional position of its
// neighbors in lower layers (downward sweep) or higher layers (upward
// sweep), alternating until an entire pass changes nothing, the crossing
// count reaches zero, or the sweep cap is hit.
//
// This is a heuristic, not an exact minimum: ties and neighbor-less nodes
// keep their previous order, which bottoms out at input insertion order, so
// repeated runs over the same graph produce identical orderings.
func (b *builder) orderLayers() {
	sweeps := b.opts.Sweeps
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	if len(b.layers) < 2 {
		return
	}

	in, out := b.in(), b.out()

	for s := 0; s < sweeps; s++ {
		changed := false

		// Downward: order each layer by its predecessors.
		for r := 1; r < len(b.layers); r++ {
			if b.medianSort(b.layers[r], in, true) {
				changed = true
			}
		}
		// Upward: order each layer by its successors.
		for r := len(b.layers) - 2; r >= 0; r-- {
			if b.medianSort(b.layers[r], out, false) {
				changed = true
			}
		}

		if !changed || b.countCrossings() == 0 {
			return
		}
	}
}

// medianSort stably reorders one layer in place by the median fractional
// position of each node's neighbors. usePred selects which endpoint of the
// adjacency edge is the neighbor. Reports whether the order changed.
func (b *builder) medianSort(layer []string, adj map[string][]int, usePred bool) bool {
	if len(layer) < 2 {
		return false
	}

	keys := make(map[string]float64, len(layer))
	for i, id := range layer {
		var nbr []float64
		for _, ei := range adj[id] {
			other := b.edges[ei].from
			if !usePred {
				other = b.edges[ei].to
			}
			if other == id {
				continue
			}
			nbr = append(nbr, b.fractionalPos(other))
		}
		if len(nbr) == 0 {
			// No neighbors: hold the current position.
			keys[id] = float64(i) / float64(len(layer))
			continue
		}
		sort.Float64s(nbr)
		keys[id] = median(nbr)
	}

	before := slices.Clone(layer)
	slices.SortStableFunc(layer, func(a, c string) int {
		switch {
		case keys[a] < keys[c]:
			return -1
		case keys[a] > keys[c]:
			return 1
		default:
			return 0
		}
	})

	if slices.Equal(before, layer) {
		return false
	}
	b.reindex()
	return true
}

// fractionalPos maps a node's slot to [0,1) within its layer, so positions
// are comparable across layers of different widths.
func (b *builder) fractionalPos(id string) float64 {
	layer := b.layers[b.rank[id]]
	return (float64(b.pos[id]) + 0.5) / float64(len(layer))
}

func median(sorted []float64) float64 {
	m := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[m]
	}
	return (sorted[m-1] + sorted[m]) / 2
}

// countCrossings sums edge crossings between each pair of adjacent layers.
// Only edges spanning exactly one rank participate; longer edges are rare in
// lineage data and are ignored by the early-exit check.
func (b *builder) countCrossings() int {
	total := 0
	for r := 0; r+1 < len(b.layers); r++ {
		total += b.countLayerCrossings(r)
	}
	return total
}

// countLayerCrossings counts crossings between layer r and layer r+1 by
// counting inversions in target positions with a Fenwick tree, O(E log V).
// Two edges (u1,v1) and (u2,v2) cross iff pos(u1) < pos(u2) and
// pos(v1) > pos(v2).
func (b *builder) countLayerCrossings(r int) int {
	lower := b.layers[r+1]

	type pair struct{ upper, lower int }
	var pairs []pair
	for _, e := range b.edges {
		if b.rank[e.from] == r && b.rank[e.to] == r+1 {
			pairs = append(pairs, pair{b.pos[e.from], b.pos[e.to]})
		}
	}
	if len(pairs) < 2 {
		return 0
	}

	slices.SortFunc(pairs, func(a, c pair) int {
		if a.upper != c.upper {
			return a.upper - c.upper
		}
		return a.lower - c.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, p := range pairs {
		lessOrEqual := 0
		for q := p.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual

		seen++
		for idx := p.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
