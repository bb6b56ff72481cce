package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"taskflow/internal/app"
)

func newServeCmd(e *env) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Long: `Run the REST API server.

The server migrates the database on start, answers /api and /health, and
posts the habit digest when report.schedule is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				e.cfg.Server.Port = port
			}
			fx.New(app.Module(e.cfg)).Run()
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")
	return cmd
}
