package htmldoc

import (
	"bytes"
	"fmt"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/user/speccrawl/internal/repository"
)

const markedNodesExpr = "//*[@" + MarkerAttr + "]"

// XPathParser parses pages with htmlquery and queries them with XPath.
type XPathParser struct{}

// Parse builds a queryable document from raw HTML.
func (XPathParser) Parse(raw []byte) (repository.PageDocument, error) {
	root, err := htmlquery.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrParseFailed, err)
	}
	return &xpathDocument{root: root}, nil
}

type xpathDocument struct {
	root *html.Node
}

func (d *xpathDocument) QueryFirstByMarker(marker string) (string, bool) {
	nodes, err := htmlquery.QueryAll(d.root, markedNodesExpr)
	if err != nil {
		return "", false
	}
	for _, n := range nodes {
		if htmlquery.SelectAttr(n, MarkerAttr) == marker {
			return htmlquery.InnerText(n), true
		}
	}
	return "", false
}
