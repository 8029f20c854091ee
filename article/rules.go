package article

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Rule pulls zero or more strings out of an article page. Rules for a field
// are tried in order and the first one that yields a non-blank value wins,
// which is how the extractors cope with the different page layouts used by
// the venues hosted on the platform.
type Rule interface {
	Apply(doc *goquery.Document) []string
}

// XPath is a rule evaluated with htmlquery. Expressions that select
// attributes (".../@href") or text nodes (".../text()") yield their value;
// element selections yield the element's inner text.
type XPath string

// Apply evaluates the expression against every root node of doc. An invalid
// expression matches nothing.
func (x XPath) Apply(doc *goquery.Document) []string {
	values := []string{}
	for _, root := range doc.Nodes {
		nodes, err := htmlquery.QueryAll(root, string(x))
		if err != nil {
			return values
		}
		for _, n := range nodes {
			if n.Type == html.TextNode {
				values = append(values, n.Data)
				continue
			}
			values = append(values, htmlquery.InnerText(n))
		}
	}
	return values
}

// Selector is a rule evaluated with goquery's CSS selectors; it yields the
// text of every matching element.
type Selector string

// Apply returns the text of each element matching the selector.
func (s Selector) Apply(doc *goquery.Document) []string {
	values := []string{}
	doc.Find(string(s)).Each(func(i int, sel *goquery.Selection) {
		values = append(values, sel.Text())
	})
	return values
}

// firstMatch applies rules in order and returns the trimmed, non-blank
// values of the first rule that produces any. It returns an empty slice if
// no rule matches.
func firstMatch(doc *goquery.Document, rules ...Rule) []string {
	for _, rule := range rules {
		values := nonBlank(rule.Apply(doc))
		if len(values) > 0 {
			return values
		}
	}
	return []string{}
}

// firstValue is firstMatch reduced to the first value, or "".
func firstValue(doc *goquery.Document, rules ...Rule) string {
	values := firstMatch(doc, rules...)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// nonBlank trims every value and drops the ones left empty.
func nonBlank(values []string) []string {
	kept := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			kept = append(kept, v)
		}
	}
	return kept
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
