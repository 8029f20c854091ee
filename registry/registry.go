// Package registry reads the DOI registry data that web-extracted article
// metadata is reconciled against: DOI lists exported as CSV, and registry
// metadata records in the Crossref JSON shape.
package registry

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Custom errors for registry input
var (
	ErrColumnOutOfRange = errors.New("DOI column out of range")
	ErrInvalidColumn    = errors.New("DOI column must not be negative")
)

// Record is a registry metadata record. Only the fields used for
// reconciliation are kept; the title is a list because that is how the
// registry exports it, and only its first element is used.
type Record struct {
	DOI   string   `json:"DOI"`
	Title []string `json:"title"`
}

// PrimaryTitle returns the first title, or "" if the record has none.
func (r Record) PrimaryTitle() string {
	if len(r.Title) == 0 {
		return ""
	}
	return r.Title[0]
}

// NewRecord creates a record with a single title.
func NewRecord(doi, title string) Record {
	return Record{DOI: doi, Title: []string{title}}
}

// LoadDOIs reads the DOIs in column col of a CSV file. The header row is
// always discarded.
func LoadDOIs(path string, col int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DOI file: %w", err)
	}
	defer f.Close()

	return ReadDOIs(f, col)
}

// ReadDOIs reads the DOIs in column col of CSV data, skipping the header
// row. Rows may have differing lengths, but every row must reach col.
func ReadDOIs(r io.Reader, col int) ([]string, error) {
	if col < 0 {
		return nil, ErrInvalidColumn
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Discard the header row
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	dois := []string{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		if col >= len(row) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d has %d columns, want column %d", ErrColumnOutOfRange, line, len(row), col)
		}
		dois = append(dois, strings.TrimSpace(row[col]))
	}

	return dois, nil
}

// crossrefResponse is the envelope of a Crossref REST API response. A works
// list has Message.Items; a single work lookup has the record fields on
// Message itself.
type crossrefResponse struct {
	Status  string `json:"status"`
	Message struct {
		Record
		Items []Record `json:"items"`
	} `json:"message"`
}

// LoadRecords reads registry records from a JSON file.
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry file: %w", err)
	}
	defer f.Close()

	return DecodeRecords(f)
}

// DecodeRecords decodes registry records. The input is either a JSON array
// of records or a Crossref works response with the records under
// message.items.
func DecodeRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry records: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		records := []Record{}
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to decode registry records: %w", err)
		}
		return records, nil
	}

	var resp crossrefResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}
	if resp.Message.Items == nil {
		return []Record{}, nil
	}
	return resp.Message.Items, nil
}

// EncodeRecords writes records as an indented JSON array, the format read
// back by DecodeRecords.
func EncodeRecords(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode registry records: %w", err)
	}
	return nil
}
