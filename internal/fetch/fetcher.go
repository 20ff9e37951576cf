package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

// ErrUnavailable marks URLs the engine cannot retrieve: unknown sites,
// removed videos, malformed links
var ErrUnavailable = errors.New("invalid URL or unavailable media")

// Cancelled is the distinguished signal raised through the progress callback
// when a pending cancel action is observed. It is expected control flow,
// not a failure.
type Cancelled struct {
	Action model.CancelAction
}

// Error implements the error interface
func (c *Cancelled) Error() string {
	return fmt.Sprintf("download cancelled (%s)", c.Action)
}

// Snapshot is one progress callback payload: byte counters plus whatever
// metadata the engine has refined so far
type Snapshot struct {
	Downloaded int64
	Total      int64 // 0 when unknown
	Speed      float64
	ETASec     int // -1 when unknown
	Filename   string
	Info       *model.MediaInfo // nil until metadata is known
}

// ProgressFunc is called repeatedly during a transfer. Returning a non-nil
// error aborts the fetch; the returned error is what Fetch unwinds with.
type ProgressFunc func(Snapshot) error

// Request describes one retrieval
type Request struct {
	URL         string
	Format      string // yt-dlp format selector expression
	AudioOnly   bool
	OutputDir   string
	JobID       string
	MaxFilesize string // yt-dlp size limit like "2000M", empty = unlimited
}

// Result is a successful retrieval
type Result struct {
	Filepath string
	Info     *model.MediaInfo
}

// Fetcher is the external retrieval engine
type Fetcher interface {
	// Fetch blocks until the transfer completes, is cancelled through the
	// callback, or fails. It returns *Cancelled or ErrUnavailable as
	// distinguished outcomes.
	Fetch(ctx context.Context, req Request, onProgress ProgressFunc) (*Result, error)

	// Probe returns the distinct available video heights for a URL in
	// descending order, for the interactive quality choice.
	Probe(ctx context.Context, url string) ([]int, error)
}
