package cli

import (
	"github.com/spf13/cobra"

	"github.com/lumipallolabs/spacemap/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scans and layouts over HTTP for remote viewers",
		Long:  `serve scans and lays out folders on this machine for viewers started with --remote. Metrics are exposed at /metrics.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			// a server always scans its own filesystem
			prov := newLocal(cfg, logger.WithPrefix("provider"))
			return server.New(prov, logger.WithPrefix("http")).ListenAndServe(ctx, cfg.Listen)
		},
	}
	cmd.Flags().String("listen", "", "listen address (default 127.0.0.1:8731)")
	return cmd
}
