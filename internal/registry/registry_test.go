package registry

import (
	"sync"
	"testing"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

func TestRegisterUnregister(t *testing.T) {
	r := New()

	r.Register("job-1")
	if !r.Contains("job-1") {
		t.Error("Expected job-1 to be registered")
	}

	r.Unregister("job-1")
	if r.Contains("job-1") {
		t.Error("Expected job-1 to be removed")
	}

	// Unregister is idempotent
	r.Unregister("job-1")
	r.Unregister("never-registered")
}

func TestRequestCancel_FirstRequestWins(t *testing.T) {
	r := New()
	r.Register("job-1")

	if !r.RequestCancel("job-1", model.ActionPreserve) {
		t.Error("Expected first cancel request to be accepted")
	}

	// Second request on the same job is a no-op
	if r.RequestCancel("job-1", model.ActionDiscard) {
		t.Error("Expected second cancel request to be rejected")
	}

	if got := r.PeekAction("job-1"); got != model.ActionPreserve {
		t.Errorf("PeekAction() = %s, expected %s", got, model.ActionPreserve)
	}
}

func TestRequestCancel_UnknownJob(t *testing.T) {
	r := New()

	if r.RequestCancel("ghost", model.ActionDiscard) {
		t.Error("Expected cancel on unknown job to be rejected")
	}

	// A job that already finished and was unregistered behaves the same
	r.Register("job-1")
	r.Unregister("job-1")
	if r.RequestCancel("job-1", model.ActionDiscard) {
		t.Error("Expected cancel after unregister to be rejected")
	}
}

func TestRequestCancel_RejectsNonCancelAction(t *testing.T) {
	r := New()
	r.Register("job-1")

	if r.RequestCancel("job-1", model.ActionNone) {
		t.Error("Expected ActionNone to be rejected")
	}
}

func TestPeekAction_NoPending(t *testing.T) {
	r := New()
	r.Register("job-1")

	if got := r.PeekAction("job-1"); got != model.ActionNone {
		t.Errorf("PeekAction() = %s, expected none", got)
	}
	if got := r.PeekAction("ghost"); got != model.ActionNone {
		t.Errorf("PeekAction() on unknown job = %s, expected none", got)
	}
}

func TestRecordInfo(t *testing.T) {
	r := New()
	r.Register("job-1")

	if r.LastInfo("job-1") != nil {
		t.Error("Expected no info before first record")
	}

	r.RecordInfo("job-1", &model.MediaInfo{Title: "Clip"})
	info := r.LastInfo("job-1")
	if info == nil || info.Title != "Clip" {
		t.Errorf("LastInfo() = %+v, expected title Clip", info)
	}

	// Recording against an unknown job is ignored
	r.RecordInfo("ghost", &model.MediaInfo{Title: "X"})
	if r.LastInfo("ghost") != nil {
		t.Error("Expected no info for unknown job")
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%26))
			r.Register(id)
			r.PeekAction(id)
			r.RequestCancel(id, model.ActionDiscard)
			r.RecordInfo(id, &model.MediaInfo{Title: id})
			r.Unregister(id)
		}(i)
	}
	wg.Wait()
}
