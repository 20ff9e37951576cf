package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l := New(path)
	defer l.Close()

	l.Info("download started", "job", "job-1")
	l.Error("download failed")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "download started") || !strings.Contains(content, "job-1") {
		t.Errorf("log file missing info record:\n%s", content)
	}
	if !strings.Contains(content, "download failed") {
		t.Errorf("log file missing error record:\n%s", content)
	}
}

func TestLogger_MirrorsToNotifier(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "log.txt"))
	defer l.Close()

	var mu sync.Mutex
	var levels []string
	done := make(chan struct{}, 4)

	l.SetNotifier(func(level, text string) {
		mu.Lock()
		levels = append(levels, level)
		mu.Unlock()
		done <- struct{}{}
	})

	l.Info("a")
	l.Warn("b")
	l.Error("c")
	l.Success("d")

	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("notifier was not invoked")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	seen := strings.Join(levels, ",")
	for _, level := range []string{LevelInfo, LevelWarning, LevelError, LevelSuccess} {
		if !strings.Contains(seen, level) {
			t.Errorf("notifier never saw level %s (got %s)", level, seen)
		}
	}
}

func TestLogger_PanickingNotifierIsSwallowed(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "log.txt"))
	defer l.Close()

	l.SetNotifier(func(level, text string) {
		panic("mirror down")
	})

	// Must not crash the process
	l.Info("still fine")
	time.Sleep(10 * time.Millisecond)
}
