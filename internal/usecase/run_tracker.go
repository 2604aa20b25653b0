package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
	"github.com/user/speccrawl/pkg/utils"
)

const statusExpiry = 48 * time.Hour

// StatusProvider exposes run progress to the status server.
type StatusProvider interface {
	Snapshot() entity.RunStatus
	Lookup(ctx context.Context, runID string) (*entity.RunStatus, error)
}

// RunTracker keeps the in-memory status of the current run and, when a store is
// configured, publishes every change to it. Publishing failures are logged and ignored.
type RunTracker struct {
	mu     sync.RWMutex
	status entity.RunStatus
	store  repository.RunStatusRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewRunTracker creates a tracker. store may be nil.
func NewRunTracker(store repository.RunStatusRepository, logger *zap.Logger) *RunTracker {
	return &RunTracker{store: store, logger: logger, now: time.Now}
}

// NewRunID derives a short run identifier from the source list path and start time.
func NewRunID(inputPath string, startedAt time.Time) string {
	return utils.HashURL(fmt.Sprintf("%s|%d", inputPath, startedAt.UnixNano()))[:16]
}

func (t *RunTracker) Start(ctx context.Context, runID string, total int) {
	t.update(ctx, func(s *entity.RunStatus) {
		*s = entity.RunStatus{
			RunID:     runID,
			Total:     total,
			State:     entity.StatePending,
			StartedAt: t.now(),
		}
	})
}

func (t *RunTracker) Begin(ctx context.Context, index int, item entity.SourceItem) {
	t.update(ctx, func(s *entity.RunStatus) {
		s.Index = index
		s.CurrentLabel = item.Label
		s.State = entity.StatePending
	})
}

func (t *RunTracker) SetState(ctx context.Context, state entity.ItemState) {
	t.update(ctx, func(s *entity.RunStatus) {
		s.State = state
	})
}

// Finish records the outcome of the current item.
func (t *RunTracker) Finish(ctx context.Context, ok bool) {
	t.update(ctx, func(s *entity.RunStatus) {
		if ok {
			s.Succeeded++
			return
		}
		s.Failed++
		s.State = entity.StateFailed
	})
}

// Snapshot returns a copy of the current status.
func (t *RunTracker) Snapshot() entity.RunStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Lookup returns the status of runID. The current run is answered from memory,
// other runs from the store.
func (t *RunTracker) Lookup(ctx context.Context, runID string) (*entity.RunStatus, error) {
	current := t.Snapshot()
	if runID == "" || runID == current.RunID {
		if current.RunID == "" {
			return nil, repository.ErrNotFound
		}
		return &current, nil
	}
	if t.store == nil {
		return nil, repository.ErrNotFound
	}
	return t.store.Get(ctx, runID)
}

func (t *RunTracker) update(ctx context.Context, fn func(s *entity.RunStatus)) {
	t.mu.Lock()
	fn(&t.status)
	t.status.UpdatedAt = t.now()
	snapshot := t.status
	t.mu.Unlock()

	if t.store == nil {
		return
	}
	if err := t.store.Publish(ctx, snapshot, statusExpiry); err != nil {
		t.logger.Warn("failed to publish run status", zap.String("run_id", snapshot.RunID), zap.Error(err))
	}
}
