package progress

import (
	"testing"
	"time"
)

func TestThrottle_Allow(t *testing.T) {
	now := time.Now()
	th := NewThrottle(10 * time.Second)
	th.now = func() time.Time { return now }

	if !th.Allow("chat-1-upload") {
		t.Error("Expected first event to pass")
	}
	if th.Allow("chat-1-upload") {
		t.Error("Expected second event within interval to be dropped")
	}

	// Independent keys do not interfere
	if !th.Allow("chat-2-upload") {
		t.Error("Expected different key to pass")
	}

	now = now.Add(11 * time.Second)
	if !th.Allow("chat-1-upload") {
		t.Error("Expected event after interval to pass")
	}
}

func TestThrottle_ForgetContaining(t *testing.T) {
	th := NewThrottle(time.Minute)
	th.Allow("10-555-upload")
	th.Allow("10-555-edit")
	th.Allow("10-777-upload")

	th.ForgetContaining("555")

	if th.Len() != 1 {
		t.Errorf("Len() = %d, expected 1 after cleanup", th.Len())
	}
	if !th.Allow("10-555-upload") {
		t.Error("Expected forgotten key to pass again")
	}
}

func TestThrottle_Forget(t *testing.T) {
	th := NewThrottle(time.Minute)
	th.Allow("key")
	th.Forget("key")

	if !th.Allow("key") {
		t.Error("Expected forgotten key to pass again")
	}
}
