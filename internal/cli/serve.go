package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tracevar/tracevar/internal/server"
	"github.com/tracevar/tracevar/pkg/integrations/classify"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes the trace pipeline as POST /api/lineage and document
classification as POST /api/classify. It runs until interrupted and shuts
down gracefully, draining in-flight requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(server.Config{
		Runner:   runner,
		Classify: classify.NewClient(cfg.Backend.ClassifyURL),
		Addr:     addr,
		Logger:   c.Logger,
	})

	c.Logger.Info("starting server", "addr", addr, "backend", cfg.Backend.LineageURL)
	return srv.Serve(ctx)
}
