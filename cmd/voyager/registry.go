package main

import (
	"github.com/pevans/voyager/registry"
	"github.com/spf13/cobra"
)

// NewRegistryCmd creates the registry command.
func NewRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry <dois-csv>",
		Short: "Build registry records by looking up DOIs with Crossref",
		Long: `Read DOIs from a CSV file (see "voyager dois"), fetch each work from the
Crossref REST API and write the records as JSON, ready for
"voyager reconcile --registry". DOIs unknown to Crossref are skipped.

Set registry.mailto in the configuration to use Crossref's polite pool.`,
		Args: cobra.ExactArgs(1),
		RunE: runRegistryCmd,
	}

	cmd.Flags().Int("col", 0, "Zero-based column holding the DOI")
	cmd.Flags().StringP("output", "o", "", "Write records to this file instead of stdout")

	return cmd
}

func runRegistryCmd(cmd *cobra.Command, args []string) error {
	env, err := loadRunEnv(cmd)
	if err != nil {
		return err
	}

	col, _ := cmd.Flags().GetInt("col")
	dois, err := registry.LoadDOIs(args[0], col)
	if err != nil {
		return err
	}

	client := registry.NewCrossrefClient(env.cfg.Registry.CrossrefURL, env.cfg.Registry.Mailto, env.cfg.Site.Timeout)
	client.SetLogger(env.logger)

	records, err := client.LookupAll(cmd.Context(), dois)
	if err != nil {
		return err
	}
	env.logger.Info("fetched registry records", "dois", len(dois), "records", len(records))

	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	if err := registry.EncodeRecords(w, records); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}
