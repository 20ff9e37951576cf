package progress

import (
	"sync"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

// State is the mutable per-job progress snapshot. It is owned by exactly one
// job and one reporter pair: the fetcher callback writes, the reporter reads.
type State struct {
	mu         sync.Mutex
	status     model.JobStatus
	downloaded int64
	total      int64
	speed      float64 // bytes per second, 0 when unknown
	etaSec     int     // -1 when unknown
	title      string
	ext        string
}

// View is an immutable copy of State handed to readers
type View struct {
	Status     model.JobStatus
	Downloaded int64
	Total      int64
	Speed      float64
	ETASec     int
	Title      string
	Ext        string
}

// NewState creates a State in the starting status with display defaults
func NewState() *State {
	return &State{
		status: model.JobStatusStarting,
		etaSec: -1,
		title:  model.DefaultTitle,
		ext:    model.DefaultVideoExt,
	}
}

// Update applies a progress callback snapshot. Downloaded bytes never go
// backwards and the total, once known, does not change.
func (s *State) Update(downloaded, total int64, speed float64, etaSec int, title, ext string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = model.JobStatusDownloading
	if downloaded > s.downloaded {
		s.downloaded = downloaded
	}
	if s.total == 0 && total > 0 {
		s.total = total
	}
	s.speed = speed
	s.etaSec = etaSec
	if title != "" {
		s.title = title
	}
	if ext != "" {
		s.ext = ext
	}
}

// Finish marks the transfer as terminal
func (s *State) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = model.JobStatusFinished
}

// Snapshot returns a consistent copy for rendering
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		Status:     s.status,
		Downloaded: s.downloaded,
		Total:      s.total,
		Speed:      s.speed,
		ETASec:     s.etaSec,
		Title:      s.title,
		Ext:        s.ext,
	}
}
