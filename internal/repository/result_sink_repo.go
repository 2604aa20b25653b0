package repository

import (
	"context"

	"github.com/user/speccrawl/internal/entity"
)

// ResultSink persists completed rows.
type ResultSink interface {
	// Append durably stores one fully assembled row. Rows are never rewritten.
	Append(ctx context.Context, item entity.SourceItem, row entity.OutputRow) error
}
