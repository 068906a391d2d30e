// Package styles maps lineage semantics to presentation attributes. The
// mapping is total: every group and every confidence value, including ones
// the analysis service invents later, resolves to a concrete style.
package styles

import (
	"github.com/tracevar/tracevar/pkg/layout"
	"github.com/tracevar/tracevar/pkg/lineage"
)

// NodeStyle is the color triple applied to a node box. Values are CSS hex
// colors.
type NodeStyle struct {
	Fill   string `json:"fill"`
	Border string `json:"border"`
	Text   string `json:"text"`
}

// EdgeStyle is the stroke applied to an edge path.
type EdgeStyle struct {
	Stroke string `json:"stroke"`
}

var groupStyles = map[lineage.Group]NodeStyle{
	lineage.GroupADaM: {Fill: "#EEF2FF", Border: "#4F46E5", Text: "#312E81"},
	lineage.GroupSDTM: {Fill: "#ECFDF5", Border: "#059669", Text: "#064E3B"},
	lineage.GroupACRF: {Fill: "#FFF7ED", Border: "#EA580C", Text: "#7C2D12"},
	lineage.GroupTLF:  {Fill: "#FDF2F8", Border: "#DB2777", Text: "#831843"},
}

// DefaultNode is the neutral style for nodes whose group is unrecognized.
var DefaultNode = NodeStyle{Fill: "#F9FAFB", Border: "#6B7280", Text: "#111827"}

var confidenceStrokes = map[lineage.Confidence]string{
	lineage.ConfidenceHigh:   "#16A34A",
	lineage.ConfidenceMedium: "#D97706",
	lineage.ConfidenceLow:    "#9CA3AF",
}

// DefaultStroke is used for edges with a missing or unrecognized confidence.
// It matches the low-confidence stroke so unknown provenance reads as weak
// rather than strong.
const DefaultStroke = "#9CA3AF"

// ForGroup returns the node style for a group. Unknown groups get
// [DefaultNode].
func ForGroup(g lineage.Group) NodeStyle {
	if s, ok := groupStyles[g]; ok {
		return s
	}
	return DefaultNode
}

// ForConfidence returns the edge style for a confidence level. Unknown
// levels get [DefaultStroke].
func ForConfidence(c lineage.Confidence) EdgeStyle {
	if s, ok := confidenceStrokes[c]; ok {
		return EdgeStyle{Stroke: s}
	}
	return EdgeStyle{Stroke: DefaultStroke}
}

// StyledNode is a positioned node with its resolved style attached.
type StyledNode struct {
	layout.PositionedNode

	Style NodeStyle `json:"style"`
}

// StyledEdge is a routed edge with its resolved style attached.
type StyledEdge struct {
	layout.RoutedEdge

	Style EdgeStyle `json:"style"`
}

// Apply decorates every node and edge of a layout result. The input is not
// modified.
func Apply(r layout.Result) ([]StyledNode, []StyledEdge) {
	nodes := make([]StyledNode, len(r.Nodes))
	for i, n := range r.Nodes {
		nodes[i] = StyledNode{PositionedNode: n, Style: ForGroup(n.Group)}
	}
	edges := make([]StyledEdge, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = StyledEdge{RoutedEdge: e, Style: ForConfidence(e.Confidence)}
	}
	return nodes, edges
}
