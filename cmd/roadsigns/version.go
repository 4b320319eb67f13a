package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/roadsigns-backend/internal/app"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(app.Info())
			}
			info := app.Info()
			fmt.Fprintln(cmd.OutOrStdout(), "roadsigns", app.BuildVersion())
			if info.BuildTime != "" {
				fmt.Fprintln(cmd.OutOrStdout(), "built", info.BuildTime, "with", info.GoVersion)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print build information as JSON")
	return cmd
}
