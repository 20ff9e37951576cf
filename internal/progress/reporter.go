package progress

import (
	"context"
	"sync"
	"time"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

// Default reporter timing
const (
	DefaultInterval = 10 * time.Second
	defaultWake     = time.Second
)

// Reporter periodically renders a job's State into a status message edit.
// It runs as one goroutine per job, started alongside the fetch and cancelled
// by the orchestrator once the fetch returns; it never outlives its job.
type Reporter struct {
	state    *State
	interval time.Duration
	wake     time.Duration

	edit            func(ctx context.Context, text string) error
	dropPlaceholder func(ctx context.Context)
	dropOnce        sync.Once
}

// NewReporter creates a reporter for the given state. edit is invoked with
// the rendered status text at most once per interval while the state is
// downloading; its failures are swallowed. dropPlaceholder is invoked exactly
// once, on the first downloading tick, and may be nil.
func NewReporter(state *State, interval time.Duration, edit func(ctx context.Context, text string) error, dropPlaceholder func(ctx context.Context)) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reporter{
		state:           state,
		interval:        interval,
		wake:            defaultWake,
		edit:            edit,
		dropPlaceholder: dropPlaceholder,
	}
}

// Run loops until ctx is cancelled. Rendering is suppressed while the state
// is not downloading, so a job that finishes before the first tick produces
// no status edits at all.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.wake)
	defer ticker.Stop()

	var lastRender time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v := r.state.Snapshot()
		if v.Status != model.JobStatusDownloading {
			continue
		}

		if r.dropPlaceholder != nil {
			r.dropOnce.Do(func() { r.dropPlaceholder(ctx) })
		}

		now := time.Now()
		if now.Sub(lastRender) < r.interval {
			continue
		}
		lastRender = now

		// Edit failures (message gone, rate limited) must not kill the
		// reporter or the job.
		_ = r.edit(ctx, Render(v))
	}
}
