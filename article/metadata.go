package article

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/voyager/scraper"
)

// Metadata is the bibliographic record extracted from one article page.
// Any field may be empty when the page layout matches none of the known
// extraction rules.
type Metadata struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Contributors    []string `json:"contributors"`
	PublicationYear string   `json:"publication_year"`
	Volume          string   `json:"volume"`
	Issue           string   `json:"issue"`
	DOI             string   `json:"doi"`
	FullTextURL     string   `json:"full_text_url"`
	Keywords        string   `json:"keywords"`
}

// Fields selects the optional fields to extract. Title, contributors and
// publication year are always extracted.
type Fields struct {
	DOI      bool // DOI link from the citation
	Citation bool // volume and issue
	Keywords bool
	FullText bool // fails the article when the Download section is missing
}

// AllFields selects every optional field.
func AllFields() Fields {
	return Fields{DOI: true, Citation: true, Keywords: true, FullText: true}
}

// ParseFields parses a comma separated list of optional field names: doi,
// citation, keywords, fulltext, or all.
func ParseFields(list string) (Fields, error) {
	var f Fields
	for name := range strings.SplitSeq(list, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "doi":
			f.DOI = true
		case "citation", "volume", "issue":
			f.Citation = true
		case "keywords":
			f.Keywords = true
		case "fulltext", "full_text", "full-text":
			f.FullText = true
		case "all":
			f = AllFields()
		default:
			return Fields{}, fmt.Errorf("unknown metadata field: %q", name)
		}
	}
	return f, nil
}

// Extractor turns an article page into a Metadata record.
type Extractor struct {
	normalizer scraper.Normalizer
}

// NewExtractor creates an extractor that resolves full text links against
// the normalizer's site root.
func NewExtractor(normalizer scraper.Normalizer) *Extractor {
	return &Extractor{normalizer: normalizer}
}

// Extract builds the record for the page at url. The only error it returns
// is ErrFullTextNotFound, and only when fields.FullText is set.
func (e *Extractor) Extract(doc *goquery.Document, url string, fields Fields) (Metadata, error) {
	citation := Citation(doc)

	meta := Metadata{
		URL:             url,
		Title:           Title(doc),
		Contributors:    Contributors(doc),
		PublicationYear: YearFromCitation(citation),
	}

	if fields.Citation {
		meta.Volume = VolumeFromCitation(citation)
		meta.Issue = IssueFromCitation(citation)
	}
	if fields.DOI {
		meta.DOI = DOI(doc)
	}
	if fields.Keywords {
		meta.Keywords = Keywords(doc)
	}
	if fields.FullText {
		href, err := FullTextURL(doc)
		if err != nil {
			return Metadata{}, err
		}
		meta.FullTextURL = e.normalizer.Normalize(href)
	}

	return meta, nil
}
