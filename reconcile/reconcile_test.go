package reconcile

import (
	"testing"

	"github.com/pevans/voyager/article"
	"github.com/pevans/voyager/registry"
	"github.com/stretchr/testify/assert"
)

// Test helper: the basic registry and web fixtures
func createTestInputs() ([]registry.Record, []TitleURL) {
	records := []registry.Record{
		{DOI: "10.1/x", Title: []string{"Foo"}},
	}
	web := []TitleURL{
		{Title: "Foo", URL: "u1"},
		{Title: "Bar", URL: "u2"},
	}
	return records, web
}

// TestMatchByTitle_Basic verifies a single exact match
func TestMatchByTitle_Basic(t *testing.T) {
	records, web := createTestInputs()

	matches := MatchByTitle(records, web)

	assert.Equal(t, []Match{{DOI: "10.1/x", Title: "Foo", URL: "u1"}}, matches)
}

// TestUnmatchedWebRecords_Basic verifies the web-only pair
func TestUnmatchedWebRecords_Basic(t *testing.T) {
	records, web := createTestInputs()

	unmatched := UnmatchedWebRecords(records, web)

	assert.Equal(t, []Unmatched{{Title: "Bar", URL: "u2"}}, unmatched)
}

// TestMatchByTitle_CaseAndWhitespaceSensitive verifies exact comparison
func TestMatchByTitle_CaseAndWhitespaceSensitive(t *testing.T) {
	records := []registry.Record{registry.NewRecord("10.1/x", "Foo")}
	web := []TitleURL{
		{Title: "foo", URL: "u1"},
		{Title: "Foo ", URL: "u2"},
		{Title: "foo ", URL: "u3"},
	}

	assert.Empty(t, MatchByTitle(records, web))
	assert.Len(t, UnmatchedWebRecords(records, web), 3)
}

// TestMatchByTitle_MultipleWebHits verifies one match per matching page
func TestMatchByTitle_MultipleWebHits(t *testing.T) {
	records := []registry.Record{registry.NewRecord("10.1/x", "Foo")}
	web := []TitleURL{
		{Title: "Foo", URL: "u1"},
		{Title: "Bar", URL: "u2"},
		{Title: "Foo", URL: "u3"},
	}

	matches := MatchByTitle(records, web)

	assert.Equal(t, []Match{
		{DOI: "10.1/x", Title: "Foo", URL: "u1"},
		{DOI: "10.1/x", Title: "Foo", URL: "u3"},
	}, matches)
}

// TestMatchByTitle_RegistryOrder verifies registry order then web order
func TestMatchByTitle_RegistryOrder(t *testing.T) {
	records := []registry.Record{
		registry.NewRecord("10.1/b", "Bar"),
		registry.NewRecord("10.1/none", "Missing"),
		registry.NewRecord("10.1/a", "Foo"),
	}
	web := []TitleURL{
		{Title: "Foo", URL: "u1"},
		{Title: "Bar", URL: "u2"},
	}

	matches := MatchByTitle(records, web)

	assert.Equal(t, []Match{
		{DOI: "10.1/b", Title: "Bar", URL: "u2"},
		{DOI: "10.1/a", Title: "Foo", URL: "u1"},
	}, matches)
}

// TestMatchByTitle_DuplicateRegistryTitles verifies duplicate registry
// records each produce their own matches
func TestMatchByTitle_DuplicateRegistryTitles(t *testing.T) {
	records := []registry.Record{
		registry.NewRecord("10.1/a", "Foo"),
		registry.NewRecord("10.1/b", "Foo"),
	}
	web := []TitleURL{{Title: "Foo", URL: "u1"}}

	matches := MatchByTitle(records, web)

	assert.Equal(t, []Match{
		{DOI: "10.1/a", Title: "Foo", URL: "u1"},
		{DOI: "10.1/b", Title: "Foo", URL: "u1"},
	}, matches)
}

// TestMatchByTitle_Empty verifies empty inputs give empty, non-nil results
func TestMatchByTitle_Empty(t *testing.T) {
	matches := MatchByTitle(nil, nil)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)

	unmatched := UnmatchedWebRecords(nil, nil)
	assert.NotNil(t, unmatched)
	assert.Empty(t, unmatched)
}

// TestUnmatchedWebRecords_DuplicateTitlesSurvive verifies every row of a
// web-only title is returned, in web order
func TestUnmatchedWebRecords_DuplicateTitlesSurvive(t *testing.T) {
	records := []registry.Record{registry.NewRecord("10.1/x", "Foo")}
	web := []TitleURL{
		{Title: "Bar", URL: "u1"},
		{Title: "Foo", URL: "u2"},
		{Title: "Bar", URL: "u3"},
		{Title: "Baz", URL: "u4"},
	}

	unmatched := UnmatchedWebRecords(records, web)

	assert.Equal(t, []Unmatched{
		{Title: "Bar", URL: "u1"},
		{Title: "Bar", URL: "u3"},
		{Title: "Baz", URL: "u4"},
	}, unmatched)
}

// TestUnmatchedWebRecords_EmptyTitles verifies pages with no extracted
// title only match registry records that also have no title
func TestUnmatchedWebRecords_EmptyTitles(t *testing.T) {
	web := []TitleURL{{Title: "", URL: "error-page"}}

	assert.Equal(t, []Unmatched{{Title: "", URL: "error-page"}},
		UnmatchedWebRecords([]registry.Record{registry.NewRecord("10.1/x", "Foo")}, web))

	assert.Empty(t, UnmatchedWebRecords([]registry.Record{{DOI: "10.1/untitled"}}, web))
}

// TestMatchAndUnmatchedPartitionWeb verifies every web pair is either
// matched or unmatched, never both
func TestMatchAndUnmatchedPartitionWeb(t *testing.T) {
	records := []registry.Record{
		registry.NewRecord("10.1/a", "A"),
		registry.NewRecord("10.1/c", "C"),
	}
	web := []TitleURL{
		{Title: "A", URL: "1"}, {Title: "B", URL: "2"},
		{Title: "C", URL: "3"}, {Title: "D", URL: "4"}, {Title: "A", URL: "5"},
	}

	matched := map[string]bool{}
	for _, m := range MatchByTitle(records, web) {
		matched[m.URL] = true
	}
	for _, u := range UnmatchedWebRecords(records, web) {
		assert.False(t, matched[u.URL], "url %s in both results", u.URL)
		matched[u.URL] = true
	}
	assert.Len(t, matched, len(web))
}

// TestTitleURLs verifies pairs follow record order
func TestTitleURLs(t *testing.T) {
	pairs := TitleURLs([]article.Metadata{
		{URL: "u1", Title: "Foo", PublicationYear: "2020"},
		{URL: "u2", Title: ""},
	})

	assert.Equal(t, []TitleURL{{Title: "Foo", URL: "u1"}, {Title: "", URL: "u2"}}, pairs)
}

// TestSummarize verifies the reconciliation counts
func TestSummarize(t *testing.T) {
	records := []registry.Record{
		registry.NewRecord("10.1/x", "Foo"),
		registry.NewRecord("10.1/y", "Lost"),
	}
	web := []TitleURL{{Title: "Foo", URL: "u1"}, {Title: "Bar", URL: "u2"}}
	matches := MatchByTitle(records, web)
	unmatched := UnmatchedWebRecords(records, web)

	summary := Summarize(records, web, matches, unmatched)

	assert.Equal(t, 2, summary.RegistryRecords)
	assert.Equal(t, 2, summary.WebRecords)
	assert.Equal(t, 1, summary.Matches)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, 1, summary.UnmatchedRegistry)
	assert.Equal(t, unmatched, summary.UnmatchedRows)
}
