// Package export writes crawl and reconciliation results to delimited text
// files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pevans/voyager/article"
	"github.com/pevans/voyager/reconcile"
)

// ContributorSeparator joins contributor names in a single metadata field.
const ContributorSeparator = ";"

// WriteMatches writes one CSV row per match: DOI, title, URL.
func WriteMatches(w io.Writer, matches []reconcile.Match) error {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{m.DOI, m.Title, m.URL})
	}
	return writeRows(w, ',', rows)
}

// WriteUnmatched writes one CSV row per unmatched web record. The DOI
// column is left blank so the file lines up with the matches file.
func WriteUnmatched(w io.Writer, unmatched []reconcile.Unmatched) error {
	rows := make([][]string, 0, len(unmatched))
	for _, u := range unmatched {
		rows = append(rows, []string{"", u.Title, u.URL})
	}
	return writeRows(w, ',', rows)
}

// MetadataColumns returns the column names written by WriteMetadata for the
// given field selection.
func MetadataColumns(fields article.Fields) []string {
	cols := []string{"url", "title", "contributors", "publication_year"}
	if fields.Citation {
		cols = append(cols, "volume", "issue")
	}
	if fields.DOI {
		cols = append(cols, "doi")
	}
	if fields.Keywords {
		cols = append(cols, "keywords")
	}
	if fields.FullText {
		cols = append(cols, "full_text_url")
	}
	return cols
}

// WriteMetadata writes one tab-delimited row per record: the URL followed
// by each extracted field, in MetadataColumns order. Contributors are
// joined with ContributorSeparator. No header row is written.
func WriteMetadata(w io.Writer, records []article.Metadata, fields article.Fields) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			r.URL,
			r.Title,
			strings.Join(r.Contributors, ContributorSeparator),
			r.PublicationYear,
		}
		if fields.Citation {
			row = append(row, r.Volume, r.Issue)
		}
		if fields.DOI {
			row = append(row, r.DOI)
		}
		if fields.Keywords {
			row = append(row, r.Keywords)
		}
		if fields.FullText {
			row = append(row, r.FullTextURL)
		}
		rows = append(rows, row)
	}
	return writeRows(w, '\t', rows)
}

// WriteURLs writes one URL per line.
func WriteURLs(w io.Writer, urls []string) error {
	for _, u := range urls {
		if _, err := fmt.Fprintln(w, u); err != nil {
			return fmt.Errorf("failed to write URL: %w", err)
		}
	}
	return nil
}

func writeRows(w io.Writer, comma rune, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteFile creates path (0600: owner-only read/write) and fills it with
// write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// WriteMatchesFile writes matches to a new CSV file at path.
func WriteMatchesFile(path string, matches []reconcile.Match) error {
	return WriteFile(path, func(w io.Writer) error {
		return WriteMatches(w, matches)
	})
}

// WriteUnmatchedFile writes unmatched web records to a new CSV file at path.
func WriteUnmatchedFile(path string, unmatched []reconcile.Unmatched) error {
	return WriteFile(path, func(w io.Writer) error {
		return WriteUnmatched(w, unmatched)
	})
}

// WriteMetadataFile writes metadata records to a new TSV file at path.
func WriteMetadataFile(path string, records []article.Metadata, fields article.Fields) error {
	return WriteFile(path, func(w io.Writer) error {
		return WriteMetadata(w, records, fields)
	})
}
