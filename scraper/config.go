package scraper

// Default selectors for the Janeway listing templates.
const (
	DefaultArticleSelector    = "div.box.article > a"
	DefaultIssueSelector      = "div.box.issue > a"
	DefaultPaginationSelector = "ul.pagination li.current ~ li.arrow:not(.unavailable) a"
)

// ListConfig defines how to walk a paginated listing page. ItemSelector
// picks the links to collect on every page; PaginationSelector picks the
// "next page" link, and only matches when a next control exists after the
// active page.
type ListConfig struct {
	ItemSelector       string `yaml:"item_selector" json:"item_selector"`
	PaginationSelector string `yaml:"pagination_selector,omitempty" json:"pagination_selector,omitempty"`
	MaxPages           int    `yaml:"max_pages" json:"max_pages"` // 0 means no limit
}

// NewListConfig creates a list configuration for the given item selector
// using the default pagination selector.
func NewListConfig(itemSelector string) ListConfig {
	return ListConfig{
		ItemSelector:       itemSelector,
		PaginationSelector: DefaultPaginationSelector,
	}
}

// ArticleListConfig returns the configuration for an "articles" listing,
// where every item links to an article page.
func ArticleListConfig() ListConfig {
	return NewListConfig(DefaultArticleSelector)
}

// IssueListConfig returns the configuration for an "issues" listing, where
// every item links to an issue page that is itself an article listing.
func IssueListConfig() ListConfig {
	return NewListConfig(DefaultIssueSelector)
}
