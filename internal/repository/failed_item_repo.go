package repository

import (
	"context"

	"github.com/user/speccrawl/internal/entity"
)

// FailedItemRepository keeps an audit trail of skipped items.
type FailedItemRepository interface {
	// Save records a skipped item. It is append-only.
	Save(ctx context.Context, failed *entity.FailedItem) error
	// ListByRun retrieves the items skipped during one run.
	ListByRun(ctx context.Context, runID string) ([]*entity.FailedItem, error)
}
