package progress

import (
	"strings"
	"sync"
	"time"
)

// Throttle is the shared timestamp table that rate limits message edits
// keyed by an arbitrary string (chat-message-phase). It is mutated by every
// concurrently running job.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     map[string]time.Time
	now      func() time.Time
}

// NewThrottle creates a throttle allowing one event per key per interval
func NewThrottle(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{
		interval: interval,
		last:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether an event for key may fire now, recording the
// timestamp when it does
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if last, ok := t.last[key]; ok && now.Sub(last) < t.interval {
		return false
	}
	t.last[key] = now
	return true
}

// Forget removes one key
func (t *Throttle) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.last, key)
}

// ForgetContaining removes every key containing sub. Cleanup calls this with
// the job's status message id so no bookkeeping survives the job.
func (t *Throttle) ForgetContaining(sub string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.last {
		if strings.Contains(key, sub) {
			delete(t.last, key)
		}
	}
}

// Len returns the number of tracked keys
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}
