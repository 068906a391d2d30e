package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tracevar/tracevar/pkg/integrations/classify"
)

// classifyCommand creates the classify command for sorting study documents
// into lineage groups.
func (c *CLI) classifyCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "classify [files...]",
		Short: "Classify study documents into lineage groups",
		Long: `Classify study documents into lineage groups.

The classify command uploads define.xml files, annotated CRFs, and TLF
shells to the analysis service, which identifies each document's type and
the datasets it describes. The result is one record per dataset, tagged
with the lineage group (ADaM, SDTM, aCRF, TLF) the document belongs to.

With --pick, an interactive list opens to select a single dataset; the
selection is printed as 'DATASET GROUP FILENAME' for scripting.`,
		Example: `  tracevar classify define_adam.xml define_sdtm.xml
  tracevar classify blankcrf.pdf --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClassify(cmd.Context(), args, pick)
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "interactively select a dataset from the results")

	return cmd
}

func (c *CLI) runClassify(ctx context.Context, paths []string, pick bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	client := classify.NewClient(cfg.Backend.ClassifyURL)

	uploads := make([]classify.Upload, 0, len(paths))
	handles := make([]*os.File, 0, len(paths))
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		handles = append(handles, f)
		uploads = append(uploads, classify.Upload{Filename: filepath.Base(path), Content: f})
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Classifying %d file(s)...", len(uploads)))
	spinner.Start()

	resp, err := client.Classify(ctx, uploads)
	if err != nil {
		spinner.StopWithError("Classification failed")
		return fmt.Errorf("classify: %w", err)
	}

	records, err := classify.TransformResponse(resp)
	if err != nil {
		spinner.StopWithError("Classification failed")
		return fmt.Errorf("classify: %w", err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Classified %d file(s) into %d dataset(s)", len(resp.Files), len(records)))

	if pick {
		selected, err := pickDataset(records)
		if err != nil {
			return err
		}
		if selected == nil {
			printInfo("No dataset selected")
			return nil
		}
		fmt.Printf("%s %s %s\n", selected.Dataset, selected.Group, selected.Filename)
		return nil
	}

	for _, rec := range records {
		printKeyValue(rec.Dataset, fmt.Sprintf("%s  %s", rec.Group, StyleDim.Render(rec.Filename)))
	}
	return nil
}
