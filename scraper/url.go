package scraper

import "strings"

// Normalizer turns the relative links found on listing and article pages
// into absolute URLs under a fixed site root.
type Normalizer struct {
	root string
}

// NewNormalizer creates a normalizer for the given site root, e.g.
// "https://www.iastatedigitalpress.com".
func NewNormalizer(root string) Normalizer {
	return Normalizer{root: root}
}

// Root returns the site root.
func (n Normalizer) Root() string {
	return n.root
}

// Normalize returns u unchanged when it already starts with the site root,
// otherwise the site root followed by u. The URL is not validated.
func (n Normalizer) Normalize(u string) string {
	if strings.HasPrefix(u, n.root) {
		return u
	}
	return n.root + u
}

// NormalizeAll normalizes every URL in urls in place and returns it.
func (n Normalizer) NormalizeAll(urls []string) []string {
	for i, u := range urls {
		urls[i] = n.Normalize(u)
	}
	return urls
}
