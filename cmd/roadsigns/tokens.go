package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/roadsigns-backend/internal/app"
)

func newCleanupTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Delete expired and revoked refresh tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			n, err := app.CleanupTokens(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired/revoked refresh tokens.\n", n)
			return nil
		},
	}
}
