package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/roadsigns-backend/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			return app.Run(cmd.Context(), cfg, logger)
		},
	}
}
