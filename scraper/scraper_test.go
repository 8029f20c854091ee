package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testRoot = "https://www.iastatedigitalpress.com"

// TestNormalize_Relative verifies relative links get the site root
func TestNormalize_Relative(t *testing.T) {
	n := NewNormalizer(testRoot)

	assert.Equal(t, testRoot+"/jtmp/article/id/1/", n.Normalize("/jtmp/article/id/1/"))
}

// TestNormalize_Absolute verifies links under the root are unchanged
func TestNormalize_Absolute(t *testing.T) {
	n := NewNormalizer(testRoot)

	u := testRoot + "/jtmp/issues/"
	assert.Equal(t, u, n.Normalize(u))
}

// TestNormalize_OtherHost verifies no URL validation is attempted
func TestNormalize_OtherHost(t *testing.T) {
	n := NewNormalizer(testRoot)

	// Concatenation is the whole contract, even for foreign hosts
	assert.Equal(t, testRoot+"https://example.com/x", n.Normalize("https://example.com/x"))
}

// TestNormalize_Idempotent verifies normalize(normalize(x)) == normalize(x)
func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer(testRoot)

	inputs := []string{"", "/a", "a/b?page=2", testRoot, testRoot + "/x", "https://other.org/y"}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "input %q", in)
	}
}

// TestNormalizeAll verifies every element is rewritten in order
func TestNormalizeAll(t *testing.T) {
	n := NewNormalizer(testRoot)

	got := n.NormalizeAll([]string{"/a", testRoot + "/b", "/a"})

	assert.Equal(t, []string{testRoot + "/a", testRoot + "/b", testRoot + "/a"}, got)
}

// TestListConfigs verifies the default listing configurations
func TestListConfigs(t *testing.T) {
	articles := ArticleListConfig()
	assert.Equal(t, DefaultArticleSelector, articles.ItemSelector)
	assert.Equal(t, DefaultPaginationSelector, articles.PaginationSelector)
	assert.Zero(t, articles.MaxPages, "should walk every page by default")

	issues := IssueListConfig()
	assert.Equal(t, DefaultIssueSelector, issues.ItemSelector)
	assert.Equal(t, DefaultPaginationSelector, issues.PaginationSelector)
}
