package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/pevans/voyager/reconcile"
)

// SummaryReport is the input of WriteSummary.
type SummaryReport struct {
	Source      string // listing or feed URL the articles came from
	GeneratedAt time.Time
	Summary     reconcile.Summary
}

// WriteSummary writes a markdown report of a reconciliation run: the
// counts, an alert when articles are missing from the registry, and the
// table of unmatched articles.
func WriteSummary(w io.Writer, report SummaryReport) error {
	md := markdown.NewMarkdown(w)
	s := report.Summary

	md.H1("Reconciliation Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source", report.Source},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Registry records", strconv.Itoa(s.RegistryRecords)},
			{"Web articles", strconv.Itoa(s.WebRecords)},
			{"Matches", strconv.Itoa(s.Matches)},
			{"Web articles without DOI", strconv.Itoa(s.Unmatched)},
			{"Registry records not found on the web", strconv.Itoa(s.UnmatchedRegistry)},
		},
	})
	md.PlainText("")

	switch {
	case s.Unmatched > 0:
		md.Warningf("%d article(s) on the web have no registry record with the same title.", s.Unmatched)
	case s.UnmatchedRegistry > 0:
		md.Note("Every web article matched, but some registry records were not found on the web.")
	default:
		md.Tip("Every web article matched a registry record.")
	}
	md.PlainText("")

	md.H2("Unmatched Articles")
	md.PlainText("")
	if len(s.UnmatchedRows) == 0 {
		md.PlainText("None.")
	} else {
		rows := make([][]string, 0, len(s.UnmatchedRows))
		for _, u := range s.UnmatchedRows {
			title := u.Title
			if title == "" {
				title = "(no title)"
			}
			rows = append(rows, []string{title, u.URL})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Title", "URL"},
			Rows:   rows,
		})
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// WriteSummaryFile writes the markdown report to a new file at path.
func WriteSummaryFile(path string, report SummaryReport) error {
	return WriteFile(path, func(w io.Writer) error {
		return WriteSummary(w, report)
	})
}
