package main

import (
	"time"

	"github.com/pevans/voyager/article"
	"github.com/pevans/voyager/export"
	"github.com/pevans/voyager/reconcile"
	"github.com/pevans/voyager/registry"
	"github.com/pevans/voyager/store"
	"github.com/spf13/cobra"
)

// NewReconcileCmd creates the reconcile command.
func NewReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile <listing-url>",
		Short: "Match the articles of a journal against DOI registry records",
		Long: `Walk a listing, extract every article's title and compare it with the
titles of the registry records. Titles must be exactly equal to match.

Matches are written as DOI,title,URL rows. Articles whose title is not in
the registry are written as ,title,URL rows.

Examples:
  voyager reconcile https://www.iastatedigitalpress.com/jpa/articles --registry records.json
  voyager reconcile --issues https://www.iastatedigitalpress.com/jpa/issues \
    --registry records.json --summary report.md`,
		Args: cobra.ExactArgs(1),
		RunE: runReconcileCmd,
	}

	cmd.Flags().String("registry", "", "Registry records JSON file (required)")
	cmd.Flags().Bool("issues", false, "Treat the URL as an issues listing")
	cmd.Flags().String("matches", "matches.csv", "Matches CSV output path")
	cmd.Flags().String("unmatched", "unmatched.csv", "Unmatched articles CSV output path")
	cmd.Flags().String("summary", "", "Write a markdown summary to this path")
	cmd.Flags().String("db", "", "Record the run in this SQLite database")
	_ = cmd.MarkFlagRequired("registry")

	return cmd
}

func runReconcileCmd(cmd *cobra.Command, args []string) error {
	env, err := loadRunEnv(cmd)
	if err != nil {
		return err
	}
	listingURL := args[0]

	registryPath, _ := cmd.Flags().GetString("registry")
	records, err := registry.LoadRecords(registryPath)
	if err != nil {
		return err
	}

	issues, _ := cmd.Flags().GetBool("issues")
	urls, err := env.discover(cmd.Context(), listingURL, issues, false)
	if err != nil {
		return err
	}
	env.logger.Info("discovered articles", "count", len(urls), "source", listingURL)

	collector := article.NewCollector(env.fetcher(), article.NewExtractor(env.cfg.Normalizer()),
		article.WithLogger(env.logger))
	metadata, err := collector.Collect(cmd.Context(), urls, article.Fields{})
	if err != nil {
		return err
	}

	if err := env.recordRun(cmd, store.KindReconcile, listingURL, metadata); err != nil {
		return err
	}

	web := reconcile.TitleURLs(metadata)
	matches := reconcile.MatchByTitle(records, web)
	unmatched := reconcile.UnmatchedWebRecords(records, web)
	summary := reconcile.Summarize(records, web, matches, unmatched)

	env.logger.Info("reconciled",
		"registry", summary.RegistryRecords,
		"web", summary.WebRecords,
		"matches", summary.Matches,
		"unmatched", summary.Unmatched)

	matchesPath, _ := cmd.Flags().GetString("matches")
	if err := export.WriteMatchesFile(matchesPath, matches); err != nil {
		return err
	}

	unmatchedPath, _ := cmd.Flags().GetString("unmatched")
	if err := export.WriteUnmatchedFile(unmatchedPath, unmatched); err != nil {
		return err
	}

	if summaryPath, _ := cmd.Flags().GetString("summary"); summaryPath != "" {
		report := export.SummaryReport{
			Source:      listingURL,
			GeneratedAt: time.Now(),
			Summary:     summary,
		}
		if err := export.WriteSummaryFile(summaryPath, report); err != nil {
			return err
		}
	}

	return nil
}
