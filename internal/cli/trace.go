package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tracevar/tracevar/pkg/pipeline"
)

// traceCommand creates the trace command, the main entry point for querying
// variable lineage.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		output  string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "trace [dataset] [variable]",
		Short: "Trace the lineage of a dataset variable",
		Long: `Trace the lineage of a dataset variable.

The trace command asks the analysis service where a variable comes from and
lays the answer out as a ranked diagram: CRF pages on the left, derived
analysis variables on the right. The result is written as a JSON diagram
with positioned, styled nodes and routed edges.

Results are cached locally for faster subsequent runs. Use --refresh to
force a new query against the backend.`,
		Example: `  tracevar trace ADAE AESCAN
  tracevar trace adsl trt01p -o trt01p.json
  tracevar trace ADAE AESCAN --refresh`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(cmd.Context(), args[0], args[1], output, refresh, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <dataset>_<variable>.json, '-' for stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and query the backend")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runTrace executes the full fetch → layout → style pipeline for one query.
func (c *CLI) runTrace(ctx context.Context, dataset, variable, output string, refresh, noCache bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Dataset:  dataset,
		Variable: variable,
		Refresh:  refresh,
		Layout:   cfg.Layout.LayoutOptions(),
		Logger:   c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tracing %s.%s...", strings.ToUpper(dataset), strings.ToUpper(variable)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Trace failed")
		return fmt.Errorf("trace %s.%s: %w", dataset, variable, err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Traced %s.%s", strings.ToUpper(dataset), strings.ToUpper(variable)))

	if result.Graph.Summary != "" {
		printDetail("%s", result.Graph.Summary)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.FetchHit)
	if result.Layout.FlippedEdges > 0 {
		printWarning("Lineage contains cycles (%d edges reversed for layout)", result.Layout.FlippedEdges)
	}
	for _, gap := range result.Graph.Gaps {
		printDetail("gap: %s", gap)
	}

	if output == "" {
		output = fmt.Sprintf("%s_%s.json", strings.ToLower(dataset), strings.ToLower(variable))
	}
	return writeDiagram(diagramFromResult(result), output)
}
