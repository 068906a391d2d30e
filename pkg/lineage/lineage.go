// Package lineage defines the variable-lineage graph model.
//
// A lineage graph describes how a clinical-trial variable originates on a
// CRF page, flows through collection (SDTM) datasets, and ends in derived
// analysis (ADaM) datasets. The package is a pure data container plus
// validation; geometry lives in pkg/layout and colors in pkg/styles.
//
// The JSON form of [Graph] is the canonical serialization format, used for
// API responses, file round-trips, and cache entries.
package lineage

import "slices"

// Group classifies a node by the clinical-data standard it belongs to.
type Group string

// Known node groups. These mirror the categories produced by the
// classification backend.
const (
	GroupADaM Group = "ADaM"
	GroupSDTM Group = "SDTM"
	GroupACRF Group = "aCRF"
	GroupTLF  Group = "TLF"
)

// Groups returns all known groups in canonical display order.
func Groups() []Group {
	return []Group{GroupADaM, GroupSDTM, GroupACRF, GroupTLF}
}

// Valid reports whether g is one of the known groups.
func (g Group) Valid() bool {
	return slices.Contains(Groups(), g)
}

// Kind describes a node's role along the lineage path.
type Kind string

// Node kinds. A source is where the data is first captured (typically a CRF
// page), a target is the analysis variable being traced, and everything in
// between is intermediate.
const (
	KindSource       Kind = "source"
	KindIntermediate Kind = "intermediate"
	KindTarget       Kind = "target"
)

// Confidence is the qualitative strength label on an edge, reflecting how
// certain the derivation inference is. An empty Confidence is legal and is
// treated like ConfidenceLow by the style mapper.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Node is a single step in a lineage graph: a variable within a dataset (or
// a CRF page reference). IDs must be unique within a graph; [Validate]
// enforces this.
type Node struct {
	ID       string `json:"id"`
	Title    string `json:"title,omitempty"` // Display label (defaults to ID)
	Dataset  string `json:"dataset,omitempty"`
	Variable string `json:"variable,omitempty"`
	Group    Group  `json:"group,omitempty"`
	Kind     Kind   `json:"kind,omitempty"`
	Meta     string `json:"meta,omitempty"` // Free-form note or file reference
}

// DisplayTitle returns the title if set, otherwise the ID.
func (n Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// Edge is a directed derivation step between two nodes. From and To must
// reference existing node IDs; [Validate] enforces this. Direction reads
// "From is derived from To" exactly as the analysis service emits it; the
// layout engine never permanently reverses an edge.
type Edge struct {
	From        string     `json:"from"`
	To          string     `json:"to"`
	Confidence  Confidence `json:"confidence,omitempty"`
	Label       string     `json:"label,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
}

// Graph is a complete lineage answer for one (dataset, variable) query.
// Nodes and Edges are sets; their order carries no structural meaning but is
// preserved for deterministic layout. Gaps are ordered human-readable notes
// about missing lineage evidence; they have no structural effect.
type Graph struct {
	Summary string   `json:"summary,omitempty"`
	Nodes   []Node   `json:"nodes"`
	Edges   []Edge   `json:"edges"`
	Gaps    []string `json:"gaps,omitempty"`
}

// GroupByCategory partitions nodes by group, preserving input order within
// each partition. Used by sidebar-style presentations; layout does not
// depend on it.
func GroupByCategory(nodes []Node) map[Group][]Node {
	out := make(map[Group][]Node)
	for _, n := range nodes {
		out[n.Group] = append(out[n.Group], n)
	}
	return out
}
