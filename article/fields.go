package article

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrFullTextNotFound is returned when an article page has no "Download"
// section. Every other field is optional, but a missing download link means
// the page is not a real article page, so it is reported as an error.
var ErrFullTextNotFound = errors.New("full text link not found")

// citeLabel introduces the citation paragraph on article pages.
const citeLabel = "How to Cite:"

// Title rules. The banner layout shows the title in the header carousel
// caption; the plain layout uses an ordinary heading.
var titleRules = []Rule{
	XPath("//figcaption[@class='orbit-caption']/h3"),
	XPath("//h1[@class='article-title']"),
}

// Contributor rules. Two venues mark authors up with schema.org itemprops;
// a third lists them under an "Authors" heading.
var contributorRules = []Rule{
	Selector("span[itemprop='author']"),
	XPath("//h3[normalize-space(.)='Authors']/following-sibling::ul[1]/li"),
}

var (
	citationInline  = XPath("//p[starts-with(normalize-space(.),'" + citeLabel + "')]")
	citationSibling = XPath("//p[normalize-space(.)='" + citeLabel + "']/following-sibling::p[1]")
)

var doiRules = []Rule{
	XPath("//p[starts-with(normalize-space(.),'" + citeLabel + "')]//a/@href"),
	XPath("//p[normalize-space(.)='" + citeLabel + "']/following-sibling::p[1]//a/@href"),
}

var keywordRules = []Rule{
	XPath("//*[normalize-space(.)='Keywords:']/following-sibling::text()[1]"),
}

var fullTextRules = []Rule{
	XPath("//div[@class='section']/h3[text()='Download']/following-sibling::ul/li/a/@href"),
}

// Citation patterns: the year is the first parenthesized four digit group,
// and volume and issue come from a " 12(3)." sequence.
var (
	reYear        = regexp.MustCompile(`\((\d{4})\)`)
	reVolumeIssue = regexp.MustCompile(` (\d+)\((\d+)\)\.`)
)

// errorPageTitles are <title> prefixes of the platform's placeholder pages.
var errorPageTitles = []string{
	"permission denied",
	"server error",
	"403 forbidden",
	"500 internal server error",
}

// IsErrorPage reports whether doc is a permission-denied or server-error
// placeholder rather than an article page.
func IsErrorPage(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	for _, prefix := range errorPageTitles {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// Title returns the article title, or "" if no layout matches or the page
// is an error placeholder.
func Title(doc *goquery.Document) string {
	if IsErrorPage(doc) {
		return ""
	}
	return firstValue(doc, titleRules...)
}

// Contributors returns the author names in page order. Blank entries are
// dropped and the result is never nil.
func Contributors(doc *goquery.Document) []string {
	names := firstMatch(doc, contributorRules...)
	for i, name := range names {
		names[i] = collapseSpace(name)
	}
	return names
}

// Citation returns the "How to Cite:" text. Some layouts put the citation in
// the labelled paragraph itself, others leave the label alone in its
// paragraph and put the citation in the next one.
func Citation(doc *goquery.Document) string {
	text := collapseSpace(firstValue(doc, citationInline))
	if text == citeLabel {
		text = collapseSpace(firstValue(doc, citationSibling))
	}
	return text
}

// PublicationYear returns the four digit year from the citation, or "".
func PublicationYear(doc *goquery.Document) string {
	return YearFromCitation(Citation(doc))
}

// Volume returns the volume number from the citation, or "".
func Volume(doc *goquery.Document) string {
	return VolumeFromCitation(Citation(doc))
}

// Issue returns the issue number from the citation, or "".
func Issue(doc *goquery.Document) string {
	return IssueFromCitation(Citation(doc))
}

// YearFromCitation returns the first parenthesized four digit group.
func YearFromCitation(citation string) string {
	return firstGroup(reYear, citation, 1)
}

// VolumeFromCitation returns N from the first " N(M)." sequence.
func VolumeFromCitation(citation string) string {
	return firstGroup(reVolumeIssue, citation, 1)
}

// IssueFromCitation returns M from the first " N(M)." sequence.
func IssueFromCitation(citation string) string {
	return firstGroup(reVolumeIssue, citation, 2)
}

func firstGroup(re *regexp.Regexp, s string, group int) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[group]
}

// DOI returns the link target of the anchor in the citation, or "".
func DOI(doc *goquery.Document) string {
	return firstValue(doc, doiRules...)
}

// Keywords returns the text following the "Keywords:" label, or "".
func Keywords(doc *goquery.Document) string {
	return firstValue(doc, keywordRules...)
}

// FullTextURL returns the first link of the "Download" section as found on
// the page, without normalization. It returns ErrFullTextNotFound when the
// section is missing.
func FullTextURL(doc *goquery.Document) (string, error) {
	href := firstValue(doc, fullTextRules...)
	if href == "" {
		return "", ErrFullTextNotFound
	}
	return href, nil
}
