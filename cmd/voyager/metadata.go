package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pevans/voyager/article"
	"github.com/pevans/voyager/export"
	"github.com/pevans/voyager/store"
	"github.com/spf13/cobra"
)

var errNoURLs = errors.New("no article URLs given")

// NewMetadataCmd creates the metadata command.
func NewMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata [url...]",
		Short: "Extract metadata from article pages",
		Long: `Fetch each article page and write one tab-separated row per article:
URL, title, contributors (joined with ";"), publication year, then the
optional fields selected with --fields, in the order volume, issue, DOI,
keywords, full text URL.

Optional fields: doi, citation (volume and issue), keywords, fulltext, all.
Requesting fulltext makes a page without a download link an error.

Examples:
  voyager metadata https://www.iastatedigitalpress.com/jpa/article/id/1/
  voyager articles https://www.iastatedigitalpress.com/jpa/articles > urls.txt
  voyager metadata --urls urls.txt --fields all -o metadata.tsv`,
		Args: cobra.ArbitraryArgs,
		RunE: runMetadataCmd,
	}

	cmd.Flags().String("urls", "", "Read article URLs from this file, one per line")
	cmd.Flags().String("fields", "", "Comma separated optional fields to extract")
	cmd.Flags().StringP("output", "o", "", "Write rows to this file instead of stdout")
	cmd.Flags().String("db", "", "Record the run in this SQLite database")

	return cmd
}

func runMetadataCmd(cmd *cobra.Command, args []string) error {
	env, err := loadRunEnv(cmd)
	if err != nil {
		return err
	}

	fieldList, _ := cmd.Flags().GetString("fields")
	fields, err := article.ParseFields(fieldList)
	if err != nil {
		return err
	}

	urls := append([]string{}, args...)
	if path, _ := cmd.Flags().GetString("urls"); path != "" {
		fromFile, err := readURLFile(path)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errNoURLs
	}

	collector := article.NewCollector(env.fetcher(), article.NewExtractor(env.cfg.Normalizer()),
		article.WithLogger(env.logger))

	records, err := collector.Collect(cmd.Context(), urls, fields)
	if err != nil {
		return err
	}
	env.logger.Info("collected metadata", "count", len(records))

	if err := env.recordRun(cmd, store.KindMetadata, "", records); err != nil {
		return err
	}

	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}
	if err := export.WriteMetadata(w, records, fields); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// readURLFile reads one URL per line, skipping blank lines.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	urls := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL file: %w", err)
	}
	return urls, nil
}

// recordRun saves records to the run store when one is configured.
func (e *runEnv) recordRun(cmd *cobra.Command, kind, startURL string, records []article.Metadata) error {
	s, err := e.openStore(cmd)
	if err != nil || s == nil {
		return err
	}
	defer s.Close()

	run, err := s.CreateRun(kind, startURL)
	if err != nil {
		return err
	}
	if err := s.SaveArticles(run.RunID, records); err != nil {
		return err
	}

	e.logger.Info("recorded run", "run_id", run.RunID, "articles", len(records))
	return nil
}
