package repository

import (
	"context"

	"github.com/user/speccrawl/internal/entity"
)

// SourceRepository loads the ordered crawl list.
type SourceRepository interface {
	// Load reads every item or fails as a whole; there is no partial load.
	Load(ctx context.Context, path string) ([]entity.SourceItem, error)
}
