// Package config holds voyager's settings: the site being crawled, the
// listing selectors, the registry endpoint, run storage and logging.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pevans/voyager/scraper"
)

// Default settings.
const (
	AppName           = "voyager"
	DefaultSiteRoot   = "https://www.iastatedigitalpress.com"
	DefaultUserAgent  = "voyager/1.0 (+janeway crawler)"
	DefaultTimeout    = 30 * time.Second
	DefaultCrossref   = "https://api.crossref.org"
	DefaultLogLevel   = "info"
	DefaultConfigName = "config.yaml"
	LocalConfigName   = ".voyager.yaml"
)

// Validation errors
var (
	ErrInvalidSiteRoot  = errors.New("site.root must be an absolute http(s) URL")
	ErrInvalidTimeout   = errors.New("site.timeout must be positive")
	ErrInvalidSelector  = errors.New("listing selectors must not be empty")
	ErrInvalidMaxPages  = errors.New("listing.max_pages must not be negative")
	ErrInvalidCrossref  = errors.New("registry.crossref_url must be an absolute http(s) URL")
	ErrInvalidLogLevel  = errors.New("logging.level must be debug, info, warn or error")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrTrailingSlashURL = errors.New("site.root must not end with a slash")
)

// SiteConfig describes the Janeway installation being crawled.
type SiteConfig struct {
	Root      string        `yaml:"root"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// ListingConfig holds the selectors used to walk listing pages.
type ListingConfig struct {
	ArticleSelector    string `yaml:"article_selector"`
	IssueSelector      string `yaml:"issue_selector"`
	PaginationSelector string `yaml:"pagination_selector"`
	MaxPages           int    `yaml:"max_pages"`
}

// RegistryConfig configures the Crossref client.
type RegistryConfig struct {
	CrossrefURL string `yaml:"crossref_url"`
	Mailto      string `yaml:"mailto"`
}

// StorageConfig configures the run store. An empty DSN disables it.
type StorageConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Config is the full voyager configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Listing  ListingConfig  `yaml:"listing"`
	Registry RegistryConfig `yaml:"registry"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Root:      DefaultSiteRoot,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
		},
		Listing: ListingConfig{
			ArticleSelector:    scraper.DefaultArticleSelector,
			IssueSelector:      scraper.DefaultIssueSelector,
			PaginationSelector: scraper.DefaultPaginationSelector,
		},
		Registry: RegistryConfig{
			CrossrefURL: DefaultCrossref,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate returns the first problem found in the configuration.
func (c *Config) Validate() error {
	if !isHTTPURL(c.Site.Root) {
		return ErrInvalidSiteRoot
	}
	if strings.HasSuffix(c.Site.Root, "/") {
		return ErrTrailingSlashURL
	}
	if c.Site.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Listing.ArticleSelector == "" || c.Listing.IssueSelector == "" || c.Listing.PaginationSelector == "" {
		return ErrInvalidSelector
	}
	if c.Listing.MaxPages < 0 {
		return ErrInvalidMaxPages
	}
	if !isHTTPURL(c.Registry.CrossrefURL) {
		return ErrInvalidCrossref
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Logging.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}
}

// Normalizer returns the URL normalizer for the configured site root.
func (c *Config) Normalizer() scraper.Normalizer {
	return scraper.NewNormalizer(c.Site.Root)
}

// ArticleList returns the listing configuration for article listings.
func (c *Config) ArticleList() scraper.ListConfig {
	return scraper.ListConfig{
		ItemSelector:       c.Listing.ArticleSelector,
		PaginationSelector: c.Listing.PaginationSelector,
		MaxPages:           c.Listing.MaxPages,
	}
}

// IssueList returns the listing configuration for issue listings.
func (c *Config) IssueList() scraper.ListConfig {
	return scraper.ListConfig{
		ItemSelector:       c.Listing.IssueSelector,
		PaginationSelector: c.Listing.PaginationSelector,
		MaxPages:           c.Listing.MaxPages,
	}
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
