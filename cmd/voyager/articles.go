package main

import (
	"context"
	"fmt"

	"github.com/pevans/voyager/discovery"
	"github.com/pevans/voyager/export"
	"github.com/spf13/cobra"
)

// NewArticlesCmd creates the articles command.
func NewArticlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles <listing-url>",
		Short: "List the article URLs of a journal",
		Long: `Walk a listing and print one article URL per line.

By default the URL is an "articles" listing. With --issues it is an
"issues" listing and every issue's article listing is walked in turn. With
--feed it is an RSS or Atom feed and only the feed's items are listed.

Examples:
  voyager articles https://www.iastatedigitalpress.com/jpa/articles
  voyager articles --issues https://www.iastatedigitalpress.com/jpa/issues
  voyager articles --feed https://www.iastatedigitalpress.com/jpa/feed/articles/`,
		Args: cobra.ExactArgs(1),
		RunE: runArticlesCmd,
	}

	cmd.Flags().Bool("issues", false, "Treat the URL as an issues listing")
	cmd.Flags().Bool("feed", false, "Treat the URL as an RSS or Atom feed")
	cmd.Flags().StringP("output", "o", "", "Write URLs to this file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("issues", "feed")

	return cmd
}

func runArticlesCmd(cmd *cobra.Command, args []string) error {
	env, err := loadRunEnv(cmd)
	if err != nil {
		return err
	}

	issues, _ := cmd.Flags().GetBool("issues")
	feed, _ := cmd.Flags().GetBool("feed")

	urls, err := env.discover(cmd.Context(), args[0], issues, feed)
	if err != nil {
		return err
	}
	env.logger.Info("discovered articles", "count", len(urls), "source", args[0])

	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	if err := export.WriteURLs(w, urls); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// discover returns the article URLs reachable from source.
func (e *runEnv) discover(ctx context.Context, source string, issues, feed bool) ([]string, error) {
	switch {
	case feed:
		d := discovery.NewFeedDiscoverer(e.cfg.Normalizer(), e.cfg.Site.Timeout, e.cfg.Site.UserAgent)
		urls, err := d.ArticleURLs(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to read feed %s: %w", source, err)
		}
		return urls, nil
	case issues:
		return e.walker().ArticleURLsFromIssues(ctx, source)
	default:
		return e.walker().ArticleURLs(ctx, source)
	}
}
