package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tracevar/tracevar/pkg/pipeline"
	"github.com/tracevar/tracevar/pkg/styles"
)

// diagram is the JSON document written by the trace and layout commands. It
// carries everything a renderer needs: positioned, styled nodes and routed,
// styled edges inside a fixed canvas.
type diagram struct {
	Summary      string              `json:"summary,omitempty"`
	Gaps         []string            `json:"gaps,omitempty"`
	Nodes        []styles.StyledNode `json:"nodes"`
	Edges        []styles.StyledEdge `json:"edges"`
	Width        float64             `json:"width"`
	Height       float64             `json:"height"`
	FlippedEdges int                 `json:"flipped_edges,omitempty"`
	GraphHash    string              `json:"graph_hash,omitempty"`
}

// diagramFromResult assembles the output document from a pipeline result.
func diagramFromResult(result *pipeline.Result) diagram {
	return diagram{
		Summary:      result.Graph.Summary,
		Gaps:         result.Graph.Gaps,
		Nodes:        result.Nodes,
		Edges:        result.Edges,
		Width:        result.Layout.Width,
		Height:       result.Layout.Height,
		FlippedEdges: result.Layout.FlippedEdges,
		GraphHash:    result.GraphHash,
	}
}

// writeDiagram writes the diagram to path, or to stdout when path is "-".
func writeDiagram(d diagram, path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode diagram: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
