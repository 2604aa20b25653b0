package entity

import "time"

// FailedItem mirrors the `failed_items` PostgreSQL table schema.
type FailedItem struct {
	ID          int64
	RunID       string
	Label       string
	Locator     string
	Stage       Stage
	Reason      string
	AttemptedAt time.Time
}
