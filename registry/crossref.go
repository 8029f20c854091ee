package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultCrossrefURL is the Crossref REST API base URL.
const DefaultCrossrefURL = "https://api.crossref.org"

// ErrDOINotFound is returned when the registry has no work for a DOI.
var ErrDOINotFound = errors.New("DOI not found in registry")

// CrossrefClient looks up registry records by DOI. Requests are made one at
// a time with no retry.
type CrossrefClient struct {
	baseURL    string
	mailto     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCrossrefClient creates a client for the API at baseURL (DefaultCrossrefURL
// when empty). mailto, when set, is sent so requests go to Crossref's
// "polite" pool.
func NewCrossrefClient(baseURL, mailto string, timeout time.Duration) *CrossrefClient {
	if baseURL == "" {
		baseURL = DefaultCrossrefURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &CrossrefClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		mailto:     mailto,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger used by the client.
func (c *CrossrefClient) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Lookup fetches the record for doi. The DOI may be bare ("10.1/x") or a
// doi.org URL.
func (c *CrossrefClient) Lookup(ctx context.Context, doi string) (Record, error) {
	doi = BareDOI(doi)
	endpoint := c.baseURL + "/works/" + escapeDOI(doi)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.mailto != "" {
		req.Header.Set("User-Agent", "voyager/1.0 (mailto:"+c.mailto+")")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("failed to query registry: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Record{}, fmt.Errorf("%w: %s", ErrDOINotFound, doi)
	case resp.StatusCode != http.StatusOK:
		return Record{}, fmt.Errorf("registry returned HTTP %d for %s", resp.StatusCode, doi)
	}

	var body crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Record{}, fmt.Errorf("failed to decode registry response: %w", err)
	}

	record := body.Message.Record
	if record.DOI == "" {
		record.DOI = doi
	}
	return record, nil
}

// LookupAll fetches the record of every DOI in order. DOIs the registry does
// not know are logged and skipped; any other failure stops the lookup.
func (c *CrossrefClient) LookupAll(ctx context.Context, dois []string) ([]Record, error) {
	records := []Record{}
	for _, doi := range dois {
		record, err := c.Lookup(ctx, doi)
		if errors.Is(err, ErrDOINotFound) {
			c.logger.Warn("DOI not found in registry", "doi", doi)
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// escapeDOI path-escapes each segment of doi, keeping its slashes.
func escapeDOI(doi string) string {
	segments := strings.Split(doi, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// BareDOI strips a doi.org URL prefix or "doi:" scheme from doi.
func BareDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{
		"https://doi.org/",
		"http://doi.org/",
		"https://dx.doi.org/",
		"http://dx.doi.org/",
		"doi:",
	} {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}
