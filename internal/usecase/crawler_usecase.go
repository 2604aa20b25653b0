package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
	"github.com/user/speccrawl/pkg/metrics"
	"github.com/user/speccrawl/pkg/utils"
)

// Crawler drives the sequential fetch, extract, write and pace loop over a crawl list.
type Crawler interface {
	// Run processes every item in order. Per-item failures are skipped; only ctx cancellation stops the run.
	Run(ctx context.Context, items []entity.SourceItem) (entity.RunSummary, error)
	// ProcessItem fetches and extracts one item without writing it.
	ProcessItem(ctx context.Context, item entity.SourceItem) entity.ItemResult
}

// CrawlerDeps wires the collaborators of the crawler use case.
// FailedItems and Tracker are optional.
type CrawlerDeps struct {
	Fetcher     repository.Fetcher
	Parser      repository.DocumentParser
	Sink        repository.ResultSink
	FailedItems repository.FailedItemRepository
	Tracker     *RunTracker
	Pacer       *Pacer
	Reporter    ProgressReporter
	Logger      *zap.Logger
}

type crawlerUseCase struct {
	spec        entity.FieldSpec
	paceSeconds int
	runID       string

	fetcher     repository.Fetcher
	parser      repository.DocumentParser
	sink        repository.ResultSink
	failedItems repository.FailedItemRepository
	tracker     *RunTracker
	pacer       *Pacer
	reporter    ProgressReporter
	logger      *zap.Logger
	now         func() time.Time
}

// NewCrawlerUseCase creates a new instance of the crawler use case.
func NewCrawlerUseCase(runID string, spec entity.FieldSpec, paceSeconds int, deps CrawlerDeps) Crawler {
	metrics.Init()
	tracker := deps.Tracker
	if tracker == nil {
		tracker = NewRunTracker(nil, deps.Logger)
	}
	return &crawlerUseCase{
		spec:        spec,
		paceSeconds: paceSeconds,
		runID:       runID,
		fetcher:     deps.Fetcher,
		parser:      deps.Parser,
		sink:        deps.Sink,
		failedItems: deps.FailedItems,
		tracker:     tracker,
		pacer:       deps.Pacer,
		reporter:    deps.Reporter,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

func (uc *crawlerUseCase) Run(ctx context.Context, items []entity.SourceItem) (entity.RunSummary, error) {
	summary := entity.RunSummary{
		RunID:     uc.runID,
		Total:     len(items),
		StartedAt: uc.now(),
	}
	uc.tracker.Start(ctx, uc.runID, len(items))
	uc.reporter.RunStarted(len(items))
	metrics.ItemsRemaining.Set(float64(len(items)))

	finish := func(err error) (entity.RunSummary, error) {
		summary.FinishedAt = uc.now()
		uc.reporter.RunFinished(summary)
		return summary, err
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		uc.reporter.ItemStarted(i, len(items), item)
		uc.tracker.Begin(ctx, i, item)

		result := uc.ProcessItem(ctx, item)
		if result.OK() {
			result = uc.write(ctx, result)
		}

		if result.OK() {
			summary.Succeeded++
			uc.onSuccess(result)
		} else {
			summary.Failed++
			uc.onFailure(ctx, result)
		}
		uc.tracker.Finish(ctx, result.OK())
		metrics.ItemsRemaining.Set(float64(len(items) - i - 1))

		uc.tracker.SetState(ctx, entity.StatePaced)
		if err := uc.pacer.Wait(ctx, uc.paceSeconds); err != nil {
			return finish(err)
		}
	}

	return finish(nil)
}

func (uc *crawlerUseCase) ProcessItem(ctx context.Context, item entity.SourceItem) (result entity.ItemResult) {
	start := uc.now()
	result.Item = item
	defer func() {
		result.Duration = uc.now().Sub(start)
	}()

	uc.tracker.SetState(ctx, entity.StateFetching)
	raw, err := uc.fetcher.Fetch(ctx, item.Locator)
	if err != nil {
		result.Err = err
		result.Stage = entity.StageFetch
		return result
	}

	uc.tracker.SetState(ctx, entity.StateExtracting)
	row, stage, err := uc.extract(raw)
	if err != nil {
		result.Err = err
		result.Stage = stage
		return result
	}

	result.Row = row
	return result
}

// extract parses raw and builds the row. A panic from a parser backend on a
// hostile page is turned into an error for this item only.
func (uc *crawlerUseCase) extract(raw []byte) (row entity.OutputRow, stage entity.Stage, err error) {
	stage = entity.StageParse
	defer func() {
		if r := recover(); r != nil {
			row = nil
			err = fmt.Errorf("%w: recovered panic: %v", repository.ErrExtractFailed, r)
		}
	}()

	doc, err := uc.parser.Parse(raw)
	if err != nil {
		return nil, stage, err
	}

	stage = entity.StageExtract
	row = ExtractRow(doc, uc.spec)
	if len(row) != uc.spec.Len() {
		return nil, stage, fmt.Errorf("%w: row has %d values for %d fields", repository.ErrExtractFailed, len(row), uc.spec.Len())
	}
	return row, entity.StageNone, nil
}

func (uc *crawlerUseCase) write(ctx context.Context, result entity.ItemResult) entity.ItemResult {
	uc.tracker.SetState(ctx, entity.StateWriting)
	if err := uc.sink.Append(ctx, result.Item, result.Row); err != nil {
		result.Err = err
		result.Stage = entity.StageWrite
		result.Row = nil
	}
	return result
}

func (uc *crawlerUseCase) onSuccess(result entity.ItemResult) {
	metrics.ItemsTotal.WithLabelValues("success", "").Inc()
	metrics.ItemDuration.WithLabelValues("success").Observe(result.Duration.Seconds())
	metrics.RowsWrittenTotal.Inc()
	metrics.FieldsFoundTotal.Add(float64(result.Row.Found()))

	uc.logger.Info("item saved",
		zap.String("label", result.Item.Label),
		zap.String("host", utils.Hostname(result.Item.Locator)),
		zap.Int("fields_found", result.Row.Found()),
		zap.Int64("duration_ms", result.Duration.Milliseconds()),
	)
	uc.reporter.ItemWritten(result.Item, result.Row)
}

func (uc *crawlerUseCase) onFailure(ctx context.Context, result entity.ItemResult) {
	errorType := classify(result.Err)
	metrics.ItemsTotal.WithLabelValues("failure", string(result.Stage)).Inc()
	metrics.ItemDuration.WithLabelValues("failure").Observe(result.Duration.Seconds())

	uc.logger.Warn("skipping item",
		zap.String("label", result.Item.Label),
		zap.String("url", result.Item.Locator),
		zap.String("stage", string(result.Stage)),
		zap.String("error_type", errorType),
		zap.Error(result.Err),
	)
	uc.reporter.ItemSkipped(result.Item, result.Err)

	if uc.failedItems == nil {
		return
	}
	failed := &entity.FailedItem{
		RunID:       uc.runID,
		Label:       result.Item.Label,
		Locator:     result.Item.Locator,
		Stage:       result.Stage,
		Reason:      result.Err.Error(),
		AttemptedAt: uc.now(),
	}
	if err := uc.failedItems.Save(ctx, failed); err != nil {
		// The audit trail is best effort; the run goes on.
		uc.logger.Error("failed to record skipped item", zap.String("label", result.Item.Label), zap.Error(err))
	}
}

func classify(err error) string {
	switch {
	case errors.Is(err, repository.ErrFetchTimeout):
		return "timeout"
	case errors.Is(err, repository.ErrBadStatus):
		return "status"
	case errors.Is(err, repository.ErrFetchFailed):
		return "transport"
	case errors.Is(err, repository.ErrParseFailed):
		return "parse"
	case errors.Is(err, repository.ErrExtractFailed):
		return "extraction"
	case errors.Is(err, repository.ErrWriteFailed):
		return "write"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "unknown"
	}
}
