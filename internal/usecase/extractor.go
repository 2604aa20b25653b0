package usecase

import (
	"strings"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

// Extract returns the normalized value the document holds for key.
//
// The value is the text of the first node marked with key, cut at the first comma,
// trimmed and stripped of double quotes: "128GB, 256GB" yields "128GB".
// An empty key or a missing node yields "". The document is not queried for an empty key.
func Extract(doc repository.PageDocument, key string) string {
	if key == "" {
		return ""
	}
	text, ok := doc.QueryFirstByMarker(key)
	if !ok {
		return ""
	}
	return normalize(text)
}

func normalize(text string) string {
	first, _, _ := strings.Cut(text, ",")
	return strings.ReplaceAll(strings.TrimSpace(first), `"`, "")
}

// ExtractRow extracts every column of spec in order. The row always has spec.Len() values.
func ExtractRow(doc repository.PageDocument, spec entity.FieldSpec) entity.OutputRow {
	row := make(entity.OutputRow, spec.Len())
	for i, field := range spec {
		row[i] = Extract(doc, field.LookupKey)
	}
	return row
}
