package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/app"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or list database migrations",
		Long:      "migrate applies all pending migrations (up, the default), rolls back the latest one (down) or prints their state (status).",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.MigrateUp), string(postgres.MigrateDown), string(postgres.MigrateStatus)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := postgres.MigrateUp
			if len(args) == 1 {
				dir = postgres.MigrationDirection(args[0])
			}

			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := app.Migrate(cmd.Context(), cfg, logger, dir); err != nil {
				return fmt.Errorf("migrate %s: %w", dir, err)
			}
			return nil
		},
	}
}
