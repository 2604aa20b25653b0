package entity

import (
	"errors"
	"fmt"
	"net/url"
)

// SourceItem is one entry of the crawl list: a human label and the page to fetch for it.
type SourceItem struct {
	Label   string
	Locator string
}

// Validate reports whether the locator can be handed to a fetcher.
func (s SourceItem) Validate() error {
	if s.Locator == "" {
		return errors.New("empty locator")
	}
	u, err := url.ParseRequestURI(s.Locator)
	if err != nil {
		return fmt.Errorf("unparsable locator %q: %w", s.Locator, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in locator %q", u.Scheme, s.Locator)
	}
	if u.Host == "" {
		return fmt.Errorf("locator %q has no host", s.Locator)
	}
	return nil
}
