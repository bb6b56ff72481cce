package cli

import (
	"context"

	"github.com/spf13/cobra"
)

func newStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the server and its database are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Client.Timeout)
			defer cancel()

			h, err := e.client().Health(ctx)
			if h != nil {
				renderHealth(e.out, e.cfg.Client.BaseURL, h)
			}
			return err
		},
	}
}
