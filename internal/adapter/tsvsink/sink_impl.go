package tsvsink

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

const (
	fieldSeparator = "\t"
	rowTerminator  = "\n"
)

// SinkImpl appends rows to a tab-separated file. The file is opened and closed for every row.
type SinkImpl struct {
	path string
}

// NewSink creates a new instance of SinkImpl writing to path.
func NewSink(path string) *SinkImpl {
	return &SinkImpl{path: path}
}

// Path returns the output file.
func (s *SinkImpl) Path() string {
	return s.path
}

// Append writes row as one line. The file is created if needed and never truncated.
func (s *SinkImpl) Append(ctx context.Context, _ entity.SourceItem, row entity.OutputRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", repository.ErrWriteFailed, s.path, err)
	}

	line := strings.Join(row, fieldSeparator) + rowTerminator
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", repository.ErrWriteFailed, s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", repository.ErrWriteFailed, s.path, err)
	}
	return nil
}
