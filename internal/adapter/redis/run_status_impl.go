package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

const (
	runStatusPrefix = "speccrawl:run:"
	latestRunKey    = "speccrawl:run:latest"
)

// RunStatusRepoImpl provides a concrete implementation for the RunStatusRepository interface using Redis.
type RunStatusRepoImpl struct {
	client *redis.Client
}

// NewRunStatusRepo creates a new instance of RunStatusRepoImpl.
func NewRunStatusRepo(client *redis.Client) *RunStatusRepoImpl {
	return &RunStatusRepoImpl{client: client}
}

func (r *RunStatusRepoImpl) generateKey(runID string) string {
	return fmt.Sprintf("%s%s", runStatusPrefix, runID)
}

// Publish stores the snapshot under its run key and points the latest-run key at it.
func (r *RunStatusRepoImpl) Publish(ctx context.Context, status entity.RunStatus, expiry time.Duration) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.SetEx(ctx, r.generateKey(status.RunID), payload, expiry)
	pipe.SetEx(ctx, latestRunKey, status.RunID, expiry)
	_, err = pipe.Exec(ctx)
	return err
}

// Get returns the snapshot of runID, or of the most recent run when runID is empty.
func (r *RunStatusRepoImpl) Get(ctx context.Context, runID string) (*entity.RunStatus, error) {
	if runID == "" {
		latest, err := r.client.Get(ctx, latestRunKey).Result()
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		runID = latest
	}

	payload, err := r.client.Get(ctx, r.generateKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var status entity.RunStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
