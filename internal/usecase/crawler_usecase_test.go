package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

var testSpec = entity.FieldSpec{
	{Name: "Name", LookupKey: "modelname"},
	{Name: "barcode", LookupKey: ""},
	{Name: "RAM_size", LookupKey: "ramsize-hl"},
	{Name: "physical_memory", LookupKey: "internalmemory"},
}

type harness struct {
	log      *eventLog
	fetcher  *fakeFetcher
	parser   *fakeParser
	sink     *fakeSink
	reporter *fakeReporter
	failed   *fakeFailedItems
	tracker  *RunTracker
	crawler  Crawler
}

func newHarness(paceSeconds int, sleep SleepFunc) *harness {
	log := &eventLog{}
	h := &harness{
		log: log,
		fetcher: &fakeFetcher{
			log:    log,
			bodies: map[string]string{},
			errs:   map[string]error{},
		},
		parser:   &fakeParser{docs: map[string]map[string]string{}},
		sink:     &fakeSink{log: log, fail: map[string]error{}},
		reporter: &fakeReporter{log: log},
		failed:   &fakeFailedItems{},
		tracker:  NewRunTracker(nil, zap.NewNop()),
	}
	if sleep == nil {
		sleep = countingSleep(log)
	}
	h.crawler = NewCrawlerUseCase("run-1", testSpec, paceSeconds, CrawlerDeps{
		Fetcher:     h.fetcher,
		Parser:      h.parser,
		Sink:        h.sink,
		FailedItems: h.failed,
		Tracker:     h.tracker,
		Pacer:       NewPacer(h.reporter, WithSleep(sleep)),
		Reporter:    h.reporter,
		Logger:      zap.NewNop(),
	})
	return h
}

// page registers a fetchable page for locator with the given marker values.
func (h *harness) page(locator string, values map[string]string) {
	h.fetcher.bodies[locator] = locator
	h.parser.docs[locator] = values
}

func items(labels ...string) []entity.SourceItem {
	out := make([]entity.SourceItem, len(labels))
	for i, l := range labels {
		out[i] = entity.SourceItem{Label: l, Locator: "https://example.com/" + l}
	}
	return out
}

func TestRunSkipsFailedFetchAndKeepsPacing(t *testing.T) {
	h := newHarness(2, nil)
	h.page("https://example.com/a", map[string]string{"modelname": "Phone A", "ramsize-hl": "8GB"})
	h.page("https://example.com/c", map[string]string{"modelname": "Phone C", "internalmemory": "128GB, 256GB"})
	h.fetcher.errs["https://example.com/b"] = errors.Join(repository.ErrFetchFailed, errors.New("connection reset"))

	summary, err := h.crawler.Run(context.Background(), items("a", "b", "c"))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "run-1", summary.RunID)

	require.Len(t, h.sink.rows, 2)
	assert.Equal(t, entity.OutputRow{"Phone A", "", "8GB", ""}, h.sink.rows[0])
	assert.Equal(t, entity.OutputRow{"Phone C", "", "", "128GB"}, h.sink.rows[1])
	for _, row := range h.sink.rows {
		assert.Len(t, row, testSpec.Len())
	}

	assert.Equal(t, []string{
		"start a", "fetch https://example.com/a", "write a", "sleep 1s", "sleep 1s",
		"start b", "fetch https://example.com/b", "sleep 1s", "sleep 1s",
		"start c", "fetch https://example.com/c", "write c", "sleep 1s", "sleep 1s",
	}, h.log.all())

	assert.Equal(t, []string{"a", "c"}, h.reporter.written)
	assert.Equal(t, []string{"b"}, h.reporter.skipped)

	require.Len(t, h.failed.saved, 1)
	assert.Equal(t, "b", h.failed.saved[0].Label)
	assert.Equal(t, entity.StageFetch, h.failed.saved[0].Stage)
	assert.Equal(t, "run-1", h.failed.saved[0].RunID)
	assert.Contains(t, h.failed.saved[0].Reason, "connection reset")
}

func TestRunParseFailureAndPanicAreContained(t *testing.T) {
	h := newHarness(1, nil)
	h.page("https://example.com/ok", map[string]string{"modelname": "OK"})
	h.fetcher.bodies["https://example.com/garbled"] = "garbled"
	h.fetcher.bodies["https://example.com/hostile"] = "panic"

	summary, err := h.crawler.Run(context.Background(), items("garbled", "hostile", "ok"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	require.Len(t, h.sink.rows, 1)
	assert.Equal(t, "OK", h.sink.rows[0][0])

	require.Len(t, h.failed.saved, 2)
	assert.Equal(t, entity.StageParse, h.failed.saved[0].Stage)
	assert.Equal(t, entity.StageParse, h.failed.saved[1].Stage)
	assert.Contains(t, h.failed.saved[1].Reason, "parser exploded")
}

func TestRunWriteFailureIsPerItem(t *testing.T) {
	h := newHarness(0, nil)
	h.page("https://example.com/a", map[string]string{"modelname": "A"})
	h.page("https://example.com/b", map[string]string{"modelname": "B"})
	h.sink.fail["a"] = errors.Join(repository.ErrWriteFailed, errors.New("disk full"))

	summary, err := h.crawler.Run(context.Background(), items("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, h.sink.rows, 1)
	assert.Equal(t, "B", h.sink.rows[0][0])
	require.Len(t, h.failed.saved, 1)
	assert.Equal(t, entity.StageWrite, h.failed.saved[0].Stage)
}

func TestRunStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var h *harness
	h = newHarness(3, func(ctx context.Context, d time.Duration) error {
		h.log.add("sleep %s", d)
		cancel()
		return ctx.Err()
	})
	h.page("https://example.com/a", map[string]string{"modelname": "A"})
	h.page("https://example.com/b", map[string]string{"modelname": "B"})

	summary, err := h.crawler.Run(ctx, items("a", "b"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, summary.Succeeded)
	assert.False(t, summary.FinishedAt.IsZero())
	assert.Equal(t, []string{"start a", "fetch https://example.com/a", "write a", "sleep 1s"}, h.log.all())
}

func TestRunEmptyList(t *testing.T) {
	h := newHarness(5, nil)

	summary, err := h.crawler.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, summary.Total)
	assert.Empty(t, h.log.all())
}

func TestRunUpdatesTracker(t *testing.T) {
	h := newHarness(0, nil)
	h.page("https://example.com/a", map[string]string{"modelname": "A"})

	_, err := h.crawler.Run(context.Background(), items("a", "b"))
	require.NoError(t, err)

	status := h.tracker.Snapshot()
	assert.Equal(t, "run-1", status.RunID)
	assert.Equal(t, 2, status.Total)
	assert.Equal(t, 1, status.Index)
	assert.Equal(t, "b", status.CurrentLabel)
	assert.Equal(t, 1, status.Succeeded)
	assert.Equal(t, 1, status.Failed)
}

func TestRunReportsPacedWhileWaiting(t *testing.T) {
	var h *harness
	var during []entity.ItemState
	h = newHarness(2, func(context.Context, time.Duration) error {
		during = append(during, h.tracker.Snapshot().State)
		return nil
	})
	h.page("https://example.com/a", map[string]string{"modelname": "A"})

	_, err := h.crawler.Run(context.Background(), items("a", "b"))
	require.NoError(t, err)

	assert.Equal(t, []entity.ItemState{
		entity.StatePaced, entity.StatePaced,
		entity.StatePaced, entity.StatePaced,
	}, during)
}

func TestProcessItem(t *testing.T) {
	h := newHarness(0, nil)
	h.page("https://example.com/a", map[string]string{"modelname": `"A"`, "ramsize-hl": "12GB, 16GB"})

	result := h.crawler.ProcessItem(context.Background(), items("a")[0])

	require.True(t, result.OK())
	assert.Equal(t, entity.StageNone, result.Stage)
	assert.Equal(t, entity.OutputRow{"A", "", "12GB", ""}, result.Row)
	assert.Empty(t, h.sink.rows, "ProcessItem must not write")

	result = h.crawler.ProcessItem(context.Background(), items("missing")[0])
	assert.False(t, result.OK())
	assert.Nil(t, result.Row)
	assert.Equal(t, entity.StageFetch, result.Stage)
	assert.ErrorIs(t, result.Err, repository.ErrFetchFailed)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.Join(repository.ErrFetchFailed, repository.ErrFetchTimeout), "timeout"},
		{errors.Join(repository.ErrFetchFailed, repository.ErrBadStatus), "status"},
		{repository.ErrFetchFailed, "transport"},
		{repository.ErrParseFailed, "parse"},
		{repository.ErrExtractFailed, "extraction"},
		{repository.ErrWriteFailed, "write"},
		{context.Canceled, "cancelled"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.err), tt.err.Error())
	}
}
