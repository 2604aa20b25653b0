package usecase

import "github.com/user/speccrawl/internal/entity"

// CountdownReporter shows the pacing countdown.
type CountdownReporter interface {
	Countdown(remaining int)
	CountdownDone()
}

// ProgressReporter receives the human-facing progress events of a run.
type ProgressReporter interface {
	CountdownReporter
	LoadingSources(path string)
	RunStarted(total int)
	ItemStarted(index, total int, item entity.SourceItem)
	ItemWritten(item entity.SourceItem, row entity.OutputRow)
	ItemSkipped(item entity.SourceItem, err error)
	RunFinished(summary entity.RunSummary)
}
