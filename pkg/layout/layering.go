package layout

// assignRanks computes longest-path ranks over the post-flip edge set:
// rank(n) = 0 for nodes with no predecessor, otherwise
// 1 + max(rank(p) for p in predecessors(n)). This guarantees the monotonic
// layering invariant: every working edge points from a strictly lower rank
// to a strictly higher rank.
//
// Memoized depth-first recursion keeps the computation O(V+E) and, unlike a
// queue-based traversal, needs no separate pass to push stragglers down.
// Self-loops and any residual cycle (which flipBackEdges should have
// eliminated) are skipped rather than recursed into, so the function always
// terminates.
func (b *builder) assignRanks() {
	const (
		unvisited = iota
		visiting
		done
	)

	in := b.in()
	state := make(map[string]int, b.vg.NodeCount())
	b.rank = make(map[string]int, b.vg.NodeCount())

	var rankOf func(id string) int
	rankOf = func(id string) int {
		switch state[id] {
		case done:
			return b.rank[id]
		case visiting:
			return -1 // residual cycle; ignore this predecessor
		}
		state[id] = visiting

		best := -1
		for _, ei := range in[id] {
			pred := b.edges[ei].from
			if pred == id {
				continue
			}
			if r := rankOf(pred); r > best {
				best = r
			}
		}

		state[id] = done
		b.rank[id] = best + 1
		return b.rank[id]
	}

	for _, n := range b.vg.Nodes {
		rankOf(n.ID)
	}
}

// buildLayers groups node IDs by rank, preserving input order within each
// layer. The initial order is the tie-breaker the ordering phase falls back
// to, which is what makes the whole pass deterministic.
func (b *builder) buildLayers() {
	maxRank := 0
	for _, n := range b.vg.Nodes {
		if r := b.rank[n.ID]; r > maxRank {
			maxRank = r
		}
	}

	b.layers = make([][]string, maxRank+1)
	for _, n := range b.vg.Nodes {
		r := b.rank[n.ID]
		b.layers[r] = append(b.layers[r], n.ID)
	}

	b.pos = make(map[string]int, b.vg.NodeCount())
	b.reindex()
}

func (b *builder) reindex() {
	for _, layer := range b.layers {
		for i, id := range layer {
			b.pos[id] = i
		}
	}
}
