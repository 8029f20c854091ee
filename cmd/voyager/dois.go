package main

import (
	"github.com/pevans/voyager/export"
	"github.com/pevans/voyager/registry"
	"github.com/spf13/cobra"
)

// NewDOIsCmd creates the dois command.
func NewDOIsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dois <csv-file>",
		Short: "Print the DOIs listed in a CSV file",
		Long: `Read a CSV file whose first row is a header and print the DOI column of
every other row, one per line.`,
		Args: cobra.ExactArgs(1),
		RunE: runDOIsCmd,
	}

	cmd.Flags().Int("col", 0, "Zero-based column holding the DOI")

	return cmd
}

func runDOIsCmd(cmd *cobra.Command, args []string) error {
	col, _ := cmd.Flags().GetInt("col")

	dois, err := registry.LoadDOIs(args[0], col)
	if err != nil {
		return err
	}

	return export.WriteURLs(cmd.OutOrStdout(), dois)
}
