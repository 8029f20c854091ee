// Package reconcile matches registry records against article metadata
// extracted from the web. Titles are compared with exact string equality:
// no case folding, whitespace or punctuation normalization is applied, so
// "Foo" and "foo " never match.
package reconcile

import (
	"github.com/pevans/voyager/article"
	"github.com/pevans/voyager/registry"
)

// TitleURL pairs an extracted article title with the article's URL.
type TitleURL struct {
	Title string
	URL   string
}

// Match is a registry record whose title equals the title extracted from
// an article page.
type Match struct {
	DOI   string
	Title string
	URL   string
}

// Unmatched is an article found on the web whose title is not in the
// registry.
type Unmatched struct {
	Title string
	URL   string
}

// TitleURLs pairs each record's title with its URL, in record order.
func TitleURLs(records []article.Metadata) []TitleURL {
	pairs := make([]TitleURL, 0, len(records))
	for _, r := range records {
		pairs = append(pairs, TitleURL{Title: r.Title, URL: r.URL})
	}
	return pairs
}

// MatchByTitle returns a Match for every (registry record, web pair)
// combination with equal titles, in registry order then web order. A
// registry title found on several pages gives several matches.
func MatchByTitle(records []registry.Record, web []TitleURL) []Match {
	matches := []Match{}
	for _, rec := range records {
		title := rec.PrimaryTitle()
		for _, tu := range web {
			if tu.Title == title {
				matches = append(matches, Match{DOI: rec.DOI, Title: tu.Title, URL: tu.URL})
			}
		}
	}
	return matches
}

// UnmatchedWebRecords returns every web pair whose title does not appear in
// the registry, in web order. Pairs sharing a title are all returned.
func UnmatchedWebRecords(records []registry.Record, web []TitleURL) []Unmatched {
	registryTitles := make(map[string]struct{}, len(records))
	for _, rec := range records {
		registryTitles[rec.PrimaryTitle()] = struct{}{}
	}

	webTitles := make(map[string]struct{}, len(web))
	for _, tu := range web {
		webTitles[tu.Title] = struct{}{}
	}

	webOnly := make(map[string]struct{})
	for title := range webTitles {
		if _, ok := registryTitles[title]; !ok {
			webOnly[title] = struct{}{}
		}
	}

	unmatched := []Unmatched{}
	for _, tu := range web {
		if _, ok := webOnly[tu.Title]; ok {
			unmatched = append(unmatched, Unmatched(tu))
		}
	}
	return unmatched
}

// Summary counts the outcome of a reconciliation.
type Summary struct {
	RegistryRecords int
	WebRecords      int
	Matches         int
	Unmatched       int
	// UnmatchedRegistry counts registry titles found on no web page.
	UnmatchedRegistry int
	UnmatchedRows     []Unmatched
}

// Summarize builds the summary of a reconciliation run.
func Summarize(records []registry.Record, web []TitleURL, matches []Match, unmatched []Unmatched) Summary {
	matchedTitles := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		matchedTitles[m.Title] = struct{}{}
	}

	missing := 0
	for _, rec := range records {
		if _, ok := matchedTitles[rec.PrimaryTitle()]; !ok {
			missing++
		}
	}

	return Summary{
		RegistryRecords:   len(records),
		WebRecords:        len(web),
		Matches:           len(matches),
		Unmatched:         len(unmatched),
		UnmatchedRegistry: missing,
		UnmatchedRows:     unmatched,
	}
}
