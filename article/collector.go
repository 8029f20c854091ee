package article

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pevans/voyager/discovery"
)

// Collector fetches article pages and extracts their metadata.
type Collector struct {
	fetcher   discovery.Fetcher
	extractor *Extractor
	logger    *slog.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithLogger sets the logger used to report progress.
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// NewCollector creates a collector.
func NewCollector(fetcher discovery.Fetcher, extractor *Extractor, opts ...CollectorOption) *Collector {
	c := &Collector{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches each URL once, in order, and returns one record per URL:
// record i always describes urls[i]. A fetch failure, or a missing full
// text link when fields.FullText is set, aborts the whole collection.
func (c *Collector) Collect(ctx context.Context, urls []string, fields Fields) ([]Metadata, error) {
	records := make([]Metadata, 0, len(urls))

	for i, url := range urls {
		doc, err := c.fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch article %s: %w", url, err)
		}

		meta, err := c.extractor.Extract(doc, url, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to extract article %s: %w", url, err)
		}

		if meta.Title == "" {
			c.logger.Warn("article has no title", "url", url)
		}
		c.logger.Debug("collected article", "n", i+1, "of", len(urls), "url", url, "title", meta.Title)

		records = append(records, meta)
	}

	return records, nil
}
