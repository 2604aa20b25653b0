package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

// RowMirrorImpl is a ResultSink that copies every written row into PostgreSQL.
type RowMirrorImpl struct {
	db    *pgxpool.Pool
	runID string
}

// NewRowMirror creates a new instance of RowMirrorImpl tagging rows with runID.
func NewRowMirror(db *pgxpool.Pool, runID string) *RowMirrorImpl {
	return &RowMirrorImpl{db: db, runID: runID}
}

// Append inserts the row. Rows are only ever inserted, never upserted.
func (r *RowMirrorImpl) Append(ctx context.Context, item entity.SourceItem, row entity.OutputRow) error {
	query := `
		INSERT INTO spec_rows (run_id, label, locator, fields)
		VALUES ($1, $2, $3, $4);
	`
	if _, err := r.db.Exec(ctx, query, r.runID, item.Label, item.Locator, []string(row)); err != nil {
		return fmt.Errorf("%w: mirror row for %s: %v", repository.ErrWriteFailed, item.Label, err)
	}
	return nil
}
