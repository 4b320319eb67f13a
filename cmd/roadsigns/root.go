package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/roadsigns-backend/internal/app"
	"github.com/heartmarshall/roadsigns-backend/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "roadsigns",
		Short:        "Road sign learning backend",
		Long:         "roadsigns serves the sign catalogue, quizzes, mini-games and learning progress over a JSON API.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "path to the YAML config file (overrides CONFIG_PATH)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newCleanupTokensCmd(),
		newVersionCmd(),
	)
	return root
}

// bootstrap loads configuration and builds the logger. The returned closer
// flushes the log file sink.
func bootstrap(cmd *cobra.Command) (*config.Config, *slog.Logger, io.Closer, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer := app.NewLogger(cfg.Log)
	return cfg, logger, closer, nil
}
