package main

import (
	"dirsort/internal/organize"

	"github.com/spf13/cobra"
)

func (a *app) categoriesCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories and the extensions that go into each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), organize.Categories())
			}
			newReporter(cmd.OutOrStdout(), a.cfg.Output.Color).categories(organize.Categories())
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the table as JSON")
	return cmd
}
