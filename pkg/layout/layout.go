package layout

import (
	"github.com/tracevar/tracevar/pkg/lineage"
)

// Default geometry. Widths and heights are in abstract canvas units; the
// render adapter decides what a unit means on screen.
const (
	DefaultNodeWidth  = 180.0
	DefaultNodeHeight = 56.0
	DefaultRankGap    = 90.0
	DefaultNodeGap    = 28.0

	// DefaultCompactThreshold is the node count above which gaps are scaled
	// down by DefaultCompactScale to keep dense diagrams bounded.
	DefaultCompactThreshold = 24
	DefaultCompactScale     = 0.65

	// DefaultSweeps caps the median-ordering iterations. Four alternating
	// sweeps are enough for the shallow graphs lineage queries produce.
	DefaultSweeps = 4
)

// Options control the layout geometry and heuristics. The zero value is not
// usable; start from [DefaultOptions].
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	RankGap    float64 // gap between consecutive ranks (x axis)
	NodeGap    float64 // gap between nodes within a rank (y axis)

	CompactThreshold int     // node count that triggers compaction; 0 disables
	CompactScale     float64 // gap multiplier applied when compacting

	Sweeps int // ordering sweep cap
}

// DefaultOptions returns the standard layout options.
func DefaultOptions() Options {
	return Options{
		NodeWidth:        DefaultNodeWidth,
		NodeHeight:       DefaultNodeHeight,
		RankGap:          DefaultRankGap,
		NodeGap:          DefaultNodeGap,
		CompactThreshold: DefaultCompactThreshold,
		CompactScale:     DefaultCompactScale,
		Sweeps:           DefaultSweeps,
	}
}

// PositionedNode is a lineage node with geometry assigned by a layout pass.
// The set produced by one [Build] call is never mutated afterwards.
type PositionedNode struct {
	lineage.Node

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Rank   int     `json:"rank"`
}

// Point is a single edge waypoint.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RoutedEdge is a lineage edge with an ordered waypoint sequence for
// drawing: source anchor, two curve control points, target anchor. From and
// To always carry the edge's original direction, even if the edge was
// flipped internally for layering.
type RoutedEdge struct {
	lineage.Edge

	Points []Point `json:"points"`
}

// Result is the complete output of one layout pass.
type Result struct {
	Nodes []PositionedNode `json:"nodes"`
	Edges []RoutedEdge     `json:"edges"`

	// FlippedEdges counts edges reversed during cycle removal. Non-zero
	// values indicate cyclic lineage data; callers should log this as a
	// data-quality signal, never treat it as an error.
	FlippedEdges int `json:"flipped_edges,omitempty"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Build computes a layout for a validated graph. It is deterministic: the
// same graph (same node and edge identities in the same order) always
// produces the same result. Build never fails; degenerate graphs (zero or
// one node) are explicit base cases.
func Build(vg *lineage.ValidatedGraph, opts Options) Result {
	if vg == nil || vg.NodeCount() == 0 {
		return Result{Nodes: []PositionedNode{}, Edges: []RoutedEdge{}}
	}

	b := &builder{vg: vg, opts: opts}
	b.prepareEdges()
	flipped := b.flipBackEdges()
	b.assignRanks()
	b.buildLayers()
	b.orderLayers()
	b.assignCoordinates()

	return Result{
		Nodes:        b.positioned,
		Edges:        b.routeEdges(),
		FlippedEdges: flipped,
		Width:        b.width,
		Height:       b.height,
	}
}

// workEdge is an edge in layering direction. Flipped edges swap from/to for
// phases 1-3; routing reads the original edge via orig.
type workEdge struct {
	from, to string
	orig     int // index into vg.Edges
	flipped  bool
}

// builder holds the per-pass state threaded through the four phases.
type builder struct {
	vg   *lineage.ValidatedGraph
	opts Options

	edges  []workEdge
	rank   map[string]int
	layers [][]string // rank -> ordered node IDs
	pos    map[string]int

	positioned []PositionedNode
	byID       map[string]int // node ID -> index into positioned

	width, height float64
}

func (b *builder) prepareEdges() {
	b.edges = make([]workEdge, len(b.vg.Edges))
	for i, e := range b.vg.Edges {
		b.edges[i] = workEdge{from: e.From, to: e.To, orig: i}
	}
}

// out returns the working adjacency as edge indices per node, in edge
// insertion order. Rebuilt on demand because flipBackEdges mutates edges.
func (b *builder) out() map[string][]int {
	adj := make(map[string][]int, b.vg.NodeCount())
	for i, e := range b.edges {
		adj[e.from] = append(adj[e.from], i)
	}
	return adj
}

func (b *builder) in() map[string][]int {
	adj := make(map[string][]int, b.vg.NodeCount())
	for i, e := range b.edges {
		adj[e.to] = append(adj[e.to], i)
	}
	return adj
}
