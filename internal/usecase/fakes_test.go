package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/speccrawl/internal/entity"
	"github.com/user/speccrawl/internal/repository"
)

// eventLog collects the order in which collaborators are called.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeDoc struct {
	values  map[string]string
	queried []string
}

func (d *fakeDoc) QueryFirstByMarker(marker string) (string, bool) {
	d.queried = append(d.queried, marker)
	v, ok := d.values[marker]
	return v, ok
}

type fakeFetcher struct {
	log    *eventLog
	bodies map[string]string
	errs   map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, locator string) ([]byte, error) {
	f.log.add("fetch %s", locator)
	if err, ok := f.errs[locator]; ok {
		return nil, err
	}
	body, ok := f.bodies[locator]
	if !ok {
		return nil, fmt.Errorf("%w: no such page %s", repository.ErrFetchFailed, locator)
	}
	return []byte(body), nil
}

// fakeParser maps a body to a prepared document. A body of "panic" makes it panic.
type fakeParser struct {
	docs map[string]map[string]string
}

func (p *fakeParser) Parse(raw []byte) (repository.PageDocument, error) {
	body := string(raw)
	if body == "panic" {
		panic("parser exploded")
	}
	values, ok := p.docs[body]
	if !ok {
		return nil, fmt.Errorf("%w: unknown body %q", repository.ErrParseFailed, body)
	}
	return &fakeDoc{values: values}, nil
}

type fakeSink struct {
	log  *eventLog
	rows []entity.OutputRow
	fail map[string]error
}

func (s *fakeSink) Append(_ context.Context, item entity.SourceItem, row entity.OutputRow) error {
	if err, ok := s.fail[item.Label]; ok {
		return err
	}
	s.log.add("write %s", item.Label)
	s.rows = append(s.rows, row)
	return nil
}

type fakeReporter struct {
	log     *eventLog
	skipped []string
	written []string
	ticks   []int
}

func (r *fakeReporter) LoadingSources(string) {}
func (r *fakeReporter) RunStarted(int) {}
func (r *fakeReporter) RunFinished(entity.RunSummary) {}
func (r *fakeReporter) CountdownDone() {}
func (r *fakeReporter) ItemStarted(_, _ int, item entity.SourceItem) { r.log.add("start %s", item.Label) }

func (r *fakeReporter) ItemWritten(item entity.SourceItem, _ entity.OutputRow) {
	r.written = append(r.written, item.Label)
}

func (r *fakeReporter) ItemSkipped(item entity.SourceItem, _ error) {
	r.skipped = append(r.skipped, item.Label)
}

func (r *fakeReporter) Countdown(remaining int) {
	r.ticks = append(r.ticks, remaining)
}

type fakeFailedItems struct {
	saved []*entity.FailedItem
}

func (f *fakeFailedItems) Save(_ context.Context, item *entity.FailedItem) error {
	f.saved = append(f.saved, item)
	return nil
}

func (f *fakeFailedItems) ListByRun(_ context.Context, runID string) ([]*entity.FailedItem, error) {
	var out []*entity.FailedItem
	for _, it := range f.saved {
		if it.RunID == runID {
			out = append(out, it)
		}
	}
	return out, nil
}

type fakeStatusStore struct {
	published []entity.RunStatus
	err       error
}

func (s *fakeStatusStore) Publish(_ context.Context, status entity.RunStatus, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, status)
	return nil
}

func (s *fakeStatusStore) Get(_ context.Context, runID string) (*entity.RunStatus, error) {
	for i := len(s.published) - 1; i >= 0; i-- {
		if s.published[i].RunID == runID {
			st := s.published[i]
			return &st, nil
		}
	}
	return nil, repository.ErrNotFound
}

// countingSleep records one "sleep" event per tick without waiting.
func countingSleep(log *eventLog) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.add("sleep %s", d)
		return nil
	}
}
