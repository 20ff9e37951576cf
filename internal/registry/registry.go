package registry

import (
	"sync"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

// Registry is the process-wide table of in-flight jobs. It is the single
// source of truth for job existence and pending cancel actions, shared by
// every concurrently running job. All operations are O(1) and never block
// on I/O.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*model.Job),
	}
}

// Register adds a job to the table
func (r *Registry) Register(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[id] = &model.Job{ID: id}
}

// Unregister removes a job from the table. It is idempotent.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

// Contains reports whether the job is still in flight
func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[id]
	return ok
}

// RequestCancel records a pending cancel action for the job. It returns true
// only when the job exists and no action was recorded before; the first
// request wins and later ones are no-ops.
func (r *Registry) RequestCancel(id string, action model.CancelAction) bool {
	if !action.IsCancel() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Action.IsCancel() {
		return false
	}
	job.Action = action
	return true
}

// PeekAction returns the pending cancel action without blocking. It is
// called from the fetcher's progress callback on every invocation.
func (r *Registry) PeekAction(id string) model.CancelAction {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return model.ActionNone
	}
	return job.Action
}

// RecordInfo stores the most recent metadata snapshot for the job so a
// cancelled download can still build a caption
func (r *Registry) RecordInfo(id string, info *model.MediaInfo) {
	if info == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[id]; ok {
		job.Info = info
	}
}

// LastInfo returns the most recent metadata snapshot, or nil
func (r *Registry) LastInfo(id string) *model.MediaInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil
	}
	return job.Info
}
