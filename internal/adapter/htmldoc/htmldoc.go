// Package htmldoc provides DocumentParser backends that locate nodes by their data-spec attribute.
package htmldoc

import (
	"fmt"

	"github.com/user/speccrawl/internal/repository"
)

// MarkerAttr is the attribute the source site tags specification values with.
const MarkerAttr = "data-spec"

// NewParser returns the parser registered under name: "goquery" (default) or "xpath".
func NewParser(name string) (repository.DocumentParser, error) {
	switch name {
	case "", "goquery", "css":
		return GoqueryParser{}, nil
	case "xpath", "htmlquery":
		return XPathParser{}, nil
	default:
		return nil, fmt.Errorf("unknown parser %q", name)
	}
}
