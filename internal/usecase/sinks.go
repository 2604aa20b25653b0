package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

// MirroredSink writes to a primary sink and copies successful rows to best-effort mirrors.
// Only the primary decides whether the item counts as written.
type MirroredSink struct {
	primary repository.ResultSink
	mirrors []repository.ResultSink
	logger  *zap.Logger
}

// NewMirroredSink creates a MirroredSink. Nil mirrors are ignored.
func NewMirroredSink(primary repository.ResultSink, logger *zap.Logger, mirrors ...repository.ResultSink) *MirroredSink {
	s := &MirroredSink{primary: primary, logger: logger}
	for _, m := range mirrors {
		if m != nil {
			s.mirrors = append(s.mirrors, m)
		}
	}
	return s
}

func (s *MirroredSink) Append(ctx context.Context, item entity.SourceItem, row entity.OutputRow) error {
	if err := s.primary.Append(ctx, item, row); err != nil {
		return err
	}
	for _, m := range s.mirrors {
		if err := m.Append(ctx, item, row); err != nil {
			s.logger.Warn("failed to mirror row", zap.String("label", item.Label), zap.Error(err))
		}
	}
	return nil
}
