package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/voyager/scraper"
)

// FeedDiscoverer reads article URLs from a journal's RSS or Atom feed
// (Janeway serves one at /{journal}/feed/articles/). Feeds only carry the
// most recent articles, so this is a quick alternative to walking the full
// listing, not a replacement for it.
type FeedDiscoverer struct {
	parser     *gofeed.Parser
	normalizer scraper.Normalizer
}

// NewFeedDiscoverer creates a feed discoverer. Feed item links are
// normalized against the site root like listing links.
func NewFeedDiscoverer(normalizer scraper.Normalizer, timeout time.Duration, userAgent string) *FeedDiscoverer {
	fetcher := NewHTTPFetcher(timeout, userAgent)

	fp := gofeed.NewParser()
	fp.Client = fetcher.client
	fp.UserAgent = fetcher.userAgent

	return &FeedDiscoverer{
		parser:     fp,
		normalizer: normalizer,
	}
}

// ArticleURLs fetches the feed at feedURL and returns the link of every
// item in feed order. Items without a link are skipped.
func (d *FeedDiscoverer) ArticleURLs(ctx context.Context, feedURL string) ([]string, error) {
	feed, err := d.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return FeedArticleURLs(feed, d.normalizer), nil
}

// FeedArticleURLs returns the normalized links of a parsed feed's items.
func FeedArticleURLs(feed *gofeed.Feed, normalizer scraper.Normalizer) []string {
	urls := []string{}
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		urls = append(urls, normalizer.Normalize(item.Link))
	}
	return urls
}
