package usecase

import (
	"context"
	"time"

	"github.com/user/speccrawl/pkg/metrics"
)

// DefaultPaceSeconds is the delay inserted after every item.
const DefaultPaceSeconds = 17

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer enforces the fixed inter-request delay. It never adapts: no backoff, no jitter.
type Pacer struct {
	reporter CountdownReporter
	sleep    SleepFunc
}

// PacerOption customizes a Pacer.
type PacerOption func(*Pacer)

// WithSleep replaces the real clock, mostly for tests.
func WithSleep(fn SleepFunc) PacerOption {
	return func(p *Pacer) {
		p.sleep = fn
	}
}

// NewPacer creates a Pacer that reports its countdown to reporter.
func NewPacer(reporter CountdownReporter, opts ...PacerOption) *Pacer {
	metrics.Init()
	p := &Pacer{reporter: reporter, sleep: sleepContext}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait blocks for seconds one-second ticks, reporting the remaining count before each tick.
// It returns early only when ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return nil
	}
	defer p.reporter.CountdownDone()

	for remaining := seconds; remaining > 0; remaining-- {
		p.reporter.Countdown(remaining)
		if err := p.sleep(ctx, time.Second); err != nil {
			return err
		}
		metrics.PaceSecondsTotal.Inc()
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
