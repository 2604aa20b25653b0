package repository

import (
	"context"
	"time"

	"github.com/user/speccrawl/internal/entity"
)

// RunStatusRepository publishes progress of the current run for outside observers.
type RunStatusRepository interface {
	// Publish stores the latest snapshot with an expiry.
	Publish(ctx context.Context, status entity.RunStatus, expiry time.Duration) error
	// Get returns the latest snapshot of a run.
	Get(ctx context.Context, runID string) (*entity.RunStatus, error)
}
