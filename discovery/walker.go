package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/voyager/scraper"
)

// Walker collects article URLs from paginated listing pages.
type Walker struct {
	fetcher    Fetcher
	normalizer scraper.Normalizer
	articles   scraper.ListConfig
	issues     scraper.ListConfig
	logger     *slog.Logger
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithLogger sets the logger used to report listing progress.
func WithLogger(logger *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = logger
	}
}

// WithListConfigs overrides the article and issue listing configurations.
func WithListConfigs(articles, issues scraper.ListConfig) WalkerOption {
	return func(w *Walker) {
		w.articles = articles
		w.issues = issues
	}
}

// NewWalker creates a walker that fetches pages with fetcher and resolves
// collected links with normalizer.
func NewWalker(fetcher Fetcher, normalizer scraper.Normalizer, opts ...WalkerOption) *Walker {
	w := &Walker{
		fetcher:    fetcher,
		normalizer: normalizer,
		articles:   scraper.ArticleListConfig(),
		issues:     scraper.IssueListConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WalkListing fetches startURL and follows its "next page" links until
// there are none left, collecting the href of every item on every page.
//
// Next-page links on the platform are relative query strings such as
// "?page=2", and they are appended to startURL rather than to the URL of
// the page they were found on. Items are returned in page-then-position
// order with duplicates kept, each one normalized against the site root.
// An empty listing is not an error.
func (w *Walker) WalkListing(ctx context.Context, startURL string, cfg scraper.ListConfig) ([]string, error) {
	doc, err := w.fetcher.Fetch(ctx, startURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %s: %w", startURL, err)
	}

	items := selectHrefs(doc, cfg.ItemSelector)
	next := nextPageLink(doc, cfg.PaginationSelector)
	pages := 1

	for next != "" {
		if cfg.MaxPages > 0 && pages >= cfg.MaxPages {
			w.logger.Debug("listing page limit reached", "url", startURL, "max_pages", cfg.MaxPages)
			break
		}

		pageURL := startURL + next
		w.logger.Debug("fetching listing page", "url", pageURL, "items_so_far", len(items))

		doc, err = w.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listing %s: %w", pageURL, err)
		}

		items = append(items, selectHrefs(doc, cfg.ItemSelector)...)
		next = nextPageLink(doc, cfg.PaginationSelector)
		pages++
	}

	w.logger.Info("walked listing", "url", startURL, "pages", pages, "items", len(items))

	return w.normalizer.NormalizeAll(items), nil
}

// ArticleURLs walks an "articles" listing such as
// https://{root}/{journal}/articles and returns every article URL.
func (w *Walker) ArticleURLs(ctx context.Context, articlesURL string) ([]string, error) {
	return w.WalkListing(ctx, articlesURL, w.articles)
}

// ArticleURLsFromIssues walks an "issues" listing such as
// https://{root}/{journal}/issues, then walks the article listing of each
// issue in turn. Article URLs are returned in issue order.
func (w *Walker) ArticleURLsFromIssues(ctx context.Context, issuesURL string) ([]string, error) {
	issueURLs, err := w.WalkListing(ctx, issuesURL, w.issues)
	if err != nil {
		return nil, err
	}

	articleURLs := []string{}
	for _, issueURL := range issueURLs {
		urls, err := w.WalkListing(ctx, issueURL, w.articles)
		if err != nil {
			return nil, err
		}
		articleURLs = append(articleURLs, urls...)
	}

	return articleURLs, nil
}

// selectHrefs returns the href attribute of every node matching selector,
// skipping nodes without one.
func selectHrefs(doc *goquery.Document, selector string) []string {
	hrefs := []string{}
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, strings.TrimSpace(href))
		}
	})
	return hrefs
}

// nextPageLink returns the first next-page href, or "" when the page has no
// next control or no pagination selector is configured.
func nextPageLink(doc *goquery.Document, selector string) string {
	if selector == "" {
		return ""
	}
	href, _ := doc.Find(selector).First().Attr("href")
	return strings.TrimSpace(href)
}
