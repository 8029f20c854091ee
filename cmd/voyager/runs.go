package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoRunStore = errors.New("no run database: pass --db or set storage.dsn")

// NewRunsCmd creates the runs command.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}

	cmd.Flags().String("db", "", "SQLite database holding the runs")

	return cmd
}

func runRunsCmd(cmd *cobra.Command, args []string) error {
	env, err := loadRunEnv(cmd)
	if err != nil {
		return err
	}

	s, err := env.openStore(cmd)
	if err != nil {
		return err
	}
	if s == nil {
		return errNoRunStore
	}
	defer s.Close()

	runs, err := s.ListRuns()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(out, "%-36s %-10s %-20s %-8s %s\n", "ID", "KIND", "CREATED", "ARTICLES", "START URL")
	for _, run := range runs {
		fmt.Fprintf(out, "%-36s %-10s %-20s %-8d %s\n",
			run.RunID.String(),
			run.Kind,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.ArticleCount,
			run.StartURL,
		)
	}
	return nil
}
