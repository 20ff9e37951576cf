package fetch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/forsyth47/yt-dlp-telegram/internal/model"
)

func TestCancelled_ErrorTag(t *testing.T) {
	var err error = &Cancelled{Action: model.ActionPreserve}
	err = fmt.Errorf("fetch: %w", err)

	var cancelled *Cancelled
	if !errors.As(err, &cancelled) {
		t.Fatal("Expected errors.As to find *Cancelled through wrapping")
	}
	if cancelled.Action != model.ActionPreserve {
		t.Errorf("Action = %s, expected preserve", cancelled.Action)
	}
}

func TestErrUnavailable_Wrapping(t *testing.T) {
	err := fmt.Errorf("%w: no such video", ErrUnavailable)

	if !errors.Is(err, ErrUnavailable) {
		t.Error("Expected errors.Is to match ErrUnavailable")
	}

	var cancelled *Cancelled
	if errors.As(err, &cancelled) {
		t.Error("ErrUnavailable must not match *Cancelled")
	}
}

func TestMediaInfoFrom_NilInfo(t *testing.T) {
	mi := mediaInfoFrom(nil, "https://example.com/v")

	if mi.OriginalURL != "https://example.com/v" {
		t.Errorf("OriginalURL = %s, expected fallback URL", mi.OriginalURL)
	}
	if mi.DisplayTitle() != "Video" {
		t.Errorf("DisplayTitle() = %s, expected default", mi.DisplayTitle())
	}
}
