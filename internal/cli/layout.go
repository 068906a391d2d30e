package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracevar/tracevar/pkg/layout"
	"github.com/tracevar/tracevar/pkg/lineage"
	"github.com/tracevar/tracevar/pkg/styles"
)

// layoutCommand creates the layout command for laying out a graph from a
// file, without contacting the backend.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Lay out a lineage graph from a JSON file",
		Long: `Lay out a lineage graph from a JSON file.

The layout command validates a graph, assigns ranks and positions, routes
edges, and attaches styles - the same processing 'trace' applies to backend
responses, but starting from a local file. Useful for inspecting saved
graphs or testing layout settings offline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <input>_diagram.json, '-' for stdout)")

	return cmd
}

func (c *CLI) runLayout(input, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	g, err := lineage.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	vg, err := lineage.Validate(g)
	if err != nil {
		return fmt.Errorf("validate %s: %w", input, err)
	}
	c.Logger.Debug("loaded graph", "nodes", vg.NodeCount(), "edges", vg.EdgeCount())

	res := layout.Build(vg, cfg.Layout.LayoutOptions())
	nodes, edges := styles.Apply(res)

	printSuccess("Laid out %s", input)
	printStats(vg.NodeCount(), vg.EdgeCount(), false)
	if res.FlippedEdges > 0 {
		printWarning("Lineage contains cycles (%d edges reversed for layout)", res.FlippedEdges)
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "_diagram.json"
	}
	return writeDiagram(diagram{
		Summary:      vg.Summary,
		Gaps:         vg.Gaps,
		Nodes:        nodes,
		Edges:        edges,
		Width:        res.Width,
		Height:       res.Height,
		FlippedEdges: res.FlippedEdges,
	}, output)
}
