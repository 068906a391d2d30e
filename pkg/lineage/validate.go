package lineage

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNodeID is returned by [Validate] when two nodes share an
	// ID. Node IDs must be unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDanglingEdge is returned by [Validate] when an edge references a
	// node ID that does not exist in the graph.
	ErrDanglingEdge = errors.New("edge references unknown node")
)

// ValidatedGraph is a Graph whose structural invariants have been checked,
// with node and adjacency indices built for layout. It is created only by
// [Validate]; the zero value is not usable.
//
// Cycles are NOT rejected here: the layout engine tolerates them by flipping
// back edges for layering purposes. Disconnected graphs and multiple roots
// are legal.
type ValidatedGraph struct {
	Graph

	index    map[string]int      // node ID -> position in Nodes
	outgoing map[string][]string // node ID -> child IDs, edge insertion order
	incoming map[string][]string // node ID -> parent IDs, edge insertion order
}

// Validate checks a graph's structural invariants and returns an indexed
// view of it. It fails with [ErrDuplicateNodeID] if two nodes share an ID,
// or [ErrDanglingEdge] if an edge endpoint does not resolve to a node. No
// other constraints are enforced.
func Validate(g Graph) (*ValidatedGraph, error) {
	vg := &ValidatedGraph{
		Graph:    g,
		index:    make(map[string]int, len(g.Nodes)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}

	for i, n := range g.Nodes {
		if _, exists := vg.index[n.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
		}
		vg.index[n.ID] = i
	}

	for _, e := range g.Edges {
		if _, ok := vg.index[e.From]; !ok {
			return nil, fmt.Errorf("%w: %s→%s (missing %q)", ErrDanglingEdge, e.From, e.To, e.From)
		}
		if _, ok := vg.index[e.To]; !ok {
			return nil, fmt.Errorf("%w: %s→%s (missing %q)", ErrDanglingEdge, e.From, e.To, e.To)
		}
		vg.outgoing[e.From] = append(vg.outgoing[e.From], e.To)
		vg.incoming[e.To] = append(vg.incoming[e.To], e.From)
	}

	return vg, nil
}

// Node returns the node with the given ID and true, or a zero Node and
// false if not found.
func (vg *ValidatedGraph) Node(id string) (Node, bool) {
	i, ok := vg.index[id]
	if !ok {
		return Node{}, false
	}
	return vg.Nodes[i], true
}

// Children returns the IDs this node has edges to, in edge insertion order.
// The returned slice is a read-only view.
func (vg *ValidatedGraph) Children(id string) []string { return vg.outgoing[id] }

// Parents returns the IDs that have edges to this node, in edge insertion
// order. The returned slice is a read-only view.
func (vg *ValidatedGraph) Parents(id string) []string { return vg.incoming[id] }

// InDegree returns the number of incoming edges to the node.
func (vg *ValidatedGraph) InDegree(id string) int { return len(vg.incoming[id]) }

// OutDegree returns the number of outgoing edges from the node.
func (vg *ValidatedGraph) OutDegree(id string) int { return len(vg.outgoing[id]) }

// NodeCount returns the number of nodes in the graph.
func (vg *ValidatedGraph) NodeCount() int { return len(vg.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (vg *ValidatedGraph) EdgeCount() int { return len(vg.Edges) }

// Sources returns the nodes with no incoming edge, in input order. For a
// well-formed lineage these are the queried analysis variables; for an empty
// graph the result is empty.
func (vg *ValidatedGraph) Sources() []Node {
	var out []Node
	for _, n := range vg.Nodes {
		if len(vg.incoming[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}
