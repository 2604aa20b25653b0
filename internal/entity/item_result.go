package entity

import "time"

// ItemState tracks where an item is in its fetch/extract/write/pace cycle.
type ItemState string

const (
	StatePending    ItemState = "pending"
	StateFetching   ItemState = "fetching"
	StateExtracting ItemState = "extracting"
	StateWriting    ItemState = "writing"
	StateFailed     ItemState = "failed"
	StatePaced      ItemState = "paced"
)

// Stage names the step an item failed in. It doubles as a metric label.
type Stage string

const (
	StageNone    Stage = ""
	StageFetch   Stage = "fetch"
	StageParse   Stage = "parse"
	StageExtract Stage = "extract"
	StageWrite   Stage = "write"
)

// ItemResult is the outcome of processing one SourceItem.
// Exactly one of Row and Err is set.
type ItemResult struct {
	Item     SourceItem
	Row      OutputRow
	Err      error
	Stage    Stage
	Duration time.Duration
}

// OK reports whether the item produced a complete row.
func (r ItemResult) OK() bool {
	return r.Err == nil
}

// RunStatus is a point-in-time view of a running crawl.
type RunStatus struct {
	RunID        string    `json:"run_id"`
	Total        int       `json:"total"`
	Index        int       `json:"index"`
	CurrentLabel string    `json:"current_label"`
	State        ItemState `json:"state"`
	Succeeded    int       `json:"succeeded"`
	Failed       int       `json:"failed"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RunSummary is returned once the crawl list is exhausted.
type RunSummary struct {
	RunID      string
	Total      int
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}
