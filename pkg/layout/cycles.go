package layout

// flipBackEdges computes a depth-first spanning forest and reverses every
// back edge (an edge whose target is currently on the DFS stack) so the
// remaining phases see an acyclic graph. Returns the number of flips.
//
// Roots are the nodes with no incoming edge, visited in input order; if the
// whole graph is cyclic and no such node exists, the first unvisited node is
// used. Self-loops are degenerate back edges: flipping them changes nothing,
// so they are counted but excluded from layering adjacency by assignRanks
// (an edge from a node to itself never constrains its rank).
func (b *builder) flipBackEdges() int {
	const (
		white = iota
		gray
		black
	)

	adj := b.out()
	color := make(map[string]int, b.vg.NodeCount())
	var backEdges []int

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, ei := range adj[id] {
			target := b.edges[ei].to
			switch color[target] {
			case white:
				dfs(target)
			case gray:
				backEdges = append(backEdges, ei)
			}
		}
		color[id] = black
	}

	for _, n := range b.vg.Nodes {
		if b.vg.InDegree(n.ID) == 0 && color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range b.vg.Nodes {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, ei := range backEdges {
		e := &b.edges[ei]
		e.from, e.to = e.to, e.from
		e.flipped = true
	}
	return len(backEdges)
}
