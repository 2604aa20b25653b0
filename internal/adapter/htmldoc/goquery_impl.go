package htmldoc

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/speccrawl/internal/repository"
)

// GoqueryParser parses pages with goquery.
type GoqueryParser struct{}

// Parse builds a queryable document from raw HTML.
func (GoqueryParser) Parse(raw []byte) (repository.PageDocument, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrParseFailed, err)
	}
	return &goqueryDocument{doc: doc}, nil
}

type goqueryDocument struct {
	doc *goquery.Document
}

// QueryFirstByMarker compares attribute values directly so keys never need selector escaping.
func (d *goqueryDocument) QueryFirstByMarker(marker string) (string, bool) {
	sel := d.doc.Find("[" + MarkerAttr + "]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr(MarkerAttr)
		return v == marker
	}).First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}
