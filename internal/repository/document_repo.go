package repository

// PageDocument is a parsed page that can be queried by data-spec marker.
type PageDocument interface {
	// QueryFirstByMarker returns the full text of the first node carrying marker.
	QueryFirstByMarker(marker string) (string, bool)
}

// DocumentParser turns raw page content into a PageDocument.
type DocumentParser interface {
	Parse(raw []byte) (PageDocument, error)
}
