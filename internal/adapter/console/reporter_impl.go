package console

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"go.uber.org/zap"

	"github.com/user/speccrawl/internal/entity"
)

// Reporter prints human progress lines: the item being parsed, the pacing countdown and skip reasons.
type Reporter struct {
	out     io.Writer
	spin    *spinner.Spinner
	mu      sync.Mutex
	spinner bool
}

// NewReporter writes progress to out. With animate set, the countdown is drawn with a spinner.
func NewReporter(out io.Writer, animate bool) *Reporter {
	r := &Reporter{out: out, spinner: animate}
	if animate {
		r.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	}
	return r
}

func (r *Reporter) LoadingSources(path string) {
	fmt.Fprintf(r.out, "Getting phone links from %s\n", path)
}

func (r *Reporter) RunStarted(total int) {
	fmt.Fprintf(r.out, "Starting phones parsing! %d items queued\n", total)
}

func (r *Reporter) ItemStarted(index, total int, item entity.SourceItem) {
	fmt.Fprintf(r.out, "\n\n\n[%d/%d] Parsing data for %s\n", index+1, total, item.Label)
}

func (r *Reporter) ItemWritten(item entity.SourceItem, row entity.OutputRow) {
	fmt.Fprintf(r.out, "Saved %s (%d/%d fields found)\n", item.Label, row.Found(), len(row))
}

func (r *Reporter) ItemSkipped(item entity.SourceItem, err error) {
	fmt.Fprintf(r.out, "Skipping %s because of error:\n%v\n", item.Label, err)
}

func (r *Reporter) Countdown(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := fmt.Sprintf("Sleeping for %d seconds", remaining)
	if !r.spinner {
		fmt.Fprintf(r.out, "%s\r", msg)
		return
	}
	// The spinner goroutine reads Suffix under its own lock.
	r.spin.Lock()
	r.spin.Suffix = " " + msg
	r.spin.Unlock()
	if !r.spin.Active() {
		r.spin.Start()
	}
}

func (r *Reporter) CountdownDone() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spinner && r.spin.Active() {
		r.spin.Stop()
		return
	}
	fmt.Fprintln(r.out)
}

func (r *Reporter) RunFinished(summary entity.RunSummary) {
	fmt.Fprintf(r.out, "\nDone: %d items, %d saved, %d skipped in %s\n",
		summary.Total, summary.Succeeded, summary.Failed,
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second))
}

// LogReporter sends the same progress events to a zap logger. Used with --quiet.
type LogReporter struct {
	logger *zap.Logger
}

func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) LoadingSources(path string) {
	r.logger.Info("loading source list", zap.String("path", path))
}

func (r *LogReporter) RunStarted(total int) {
	r.logger.Info("starting crawl", zap.Int("items", total))
}

func (r *LogReporter) ItemStarted(index, total int, item entity.SourceItem) {
	r.logger.Info("parsing item", zap.Int("index", index+1), zap.Int("total", total), zap.String("label", item.Label))
}

func (r *LogReporter) ItemWritten(item entity.SourceItem, row entity.OutputRow) {
	r.logger.Info("row saved", zap.String("label", item.Label), zap.Int("fields_found", row.Found()))
}

func (r *LogReporter) ItemSkipped(item entity.SourceItem, err error) {
	r.logger.Warn("skipping item", zap.String("label", item.Label), zap.Error(err))
}

func (r *LogReporter) Countdown(remaining int) {
	r.logger.Debug("pacing", zap.Int("remaining_seconds", remaining))
}

func (r *LogReporter) CountdownDone() {}

func (r *LogReporter) RunFinished(summary entity.RunSummary) {
	r.logger.Info("crawl finished",
		zap.String("run_id", summary.RunID),
		zap.Int("total", summary.Total),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
}
