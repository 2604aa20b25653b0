package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

// SourceRepoImpl reads the crawl list from a `label,locator` CSV file without a header.
type SourceRepoImpl struct{}

// NewSourceRepo creates a new instance of SourceRepoImpl.
func NewSourceRepo() *SourceRepoImpl {
	return &SourceRepoImpl{}
}

// Load reads every record of the file at path. Any record that is not exactly two fields,
// or whose locator is not an absolute http(s) URL, fails the whole load.
func (r *SourceRepoImpl) Load(ctx context.Context, path string) ([]entity.SourceItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source list: %w", err)
	}
	defer f.Close()

	return r.Read(ctx, f)
}

// Read parses the crawl list from an arbitrary reader.
func (r *SourceRepoImpl) Read(ctx context.Context, src io.Reader) ([]entity.SourceItem, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true
	// Labels may carry a bare inch mark, e.g. `Galaxy Tab 10.1" LTE`; only the field count is strict.
	reader.LazyQuotes = true

	var items []entity.SourceItem
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w: line %d: %v", repository.ErrMalformedRecord, parseErr.Line, parseErr.Err)
			}
			return nil, fmt.Errorf("read source list: %w", err)
		}

		line, _ := reader.FieldPos(0)
		item := entity.SourceItem{
			Label:   strings.TrimSpace(record[0]),
			Locator: strings.TrimSpace(record[1]),
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", repository.ErrInvalidLocator, line, err)
		}
		items = append(items, item)
	}
	return items, nil
}
