package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/speccrawl/internal/entity"
)

// FailedItemRepoImpl provides a concrete implementation for the FailedItemRepository interface using PostgreSQL.
type FailedItemRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedItemRepo creates a new instance of FailedItemRepoImpl.
func NewFailedItemRepo(db *pgxpool.Pool) *FailedItemRepoImpl {
	return &FailedItemRepoImpl{db: db}
}

// Save records a skipped item.
func (r *FailedItemRepoImpl) Save(ctx context.Context, failed *entity.FailedItem) error {
	query := `
		INSERT INTO failed_items (run_id, label, locator, stage, reason, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`
	return r.db.QueryRow(ctx, query,
		failed.RunID,
		failed.Label,
		failed.Locator,
		string(failed.Stage),
		failed.Reason,
		failed.AttemptedAt,
	).Scan(&failed.ID)
}

// ListByRun retrieves the items skipped during one run, oldest first.
func (r *FailedItemRepoImpl) ListByRun(ctx context.Context, runID string) ([]*entity.FailedItem, error) {
	query := `
		SELECT id, run_id, label, locator, stage, reason, attempted_at
		FROM failed_items
		WHERE run_id = $1
		ORDER BY attempted_at ASC, id ASC;
	`
	rows, err := r.db.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*entity.FailedItem
	for rows.Next() {
		var fi entity.FailedItem
		var stage string
		if err := rows.Scan(
			&fi.ID,
			&fi.RunID,
			&fi.Label,
			&fi.Locator,
			&stage,
			&fi.Reason,
			&fi.AttemptedAt,
		); err != nil {
			return nil, err
		}
		fi.Stage = entity.Stage(stage)
		items = append(items, &fi)
	}

	return items, rows.Err()
}
