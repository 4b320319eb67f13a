package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/roadsigns-backend/internal/app"
	"github.com/heartmarshall/roadsigns-backend/internal/app/seeder"
)

func newSeedCmd() *cobra.Command {
	var (
		file         string
		dryRun       bool
		seederConfig string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate and import a sign catalogue",
		Long: "seed validates a JSON catalogue of categories, signs and questions against the " +
			"catalogue schema and upserts it in one transaction. Without --file the built-in " +
			"Indian road sign catalogue is imported.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedCfg, err := seeder.LoadConfig(seederConfig)
			if err != nil {
				return err
			}
			// Flags override config.
			if file != "" {
				seedCfg.FilePath = file
			}
			if dryRun {
				seedCfg.DryRun = true
			}

			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			results, err := app.Seed(cmd.Context(), cfg, logger, *seedCfg)
			if err != nil {
				return err
			}

			phases := make([]string, 0, len(results))
			for name := range results {
				phases = append(phases, name)
			}
			sort.Strings(phases)
			for _, name := range phases {
				r := results[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s written=%d skipped=%d\n", name, r.Written, r.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "catalogue JSON file (default: built-in catalogue)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the catalogue without writing")
	cmd.Flags().StringVar(&seederConfig, "seeder-config", "", "path to seeder YAML config file")
	return cmd
}
