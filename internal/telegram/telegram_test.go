package telegram

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/download https://example.com/v", "https://example.com/v"},
		{"/download", ""},
		{"/download   ", ""},
		{"/sendVideo https://example.com/v My Title", "https://example.com/v My Title"},
		{"  /audio https://example.com/a  ", "https://example.com/a"},
	}
	for _, tt := range tests {
		if got := commandArgs(tt.text); got != tt.want {
			t.Errorf("commandArgs(%q) = %q, expected %q", tt.text, got, tt.want)
		}
	}
}

func TestCallbackData(t *testing.T) {
	if got := callbackData(cbCancel, "del", "abc-123"); got != "cancel|del|abc-123" {
		t.Errorf("callbackData = %q", got)
	}
	if got := callbackData(cbSelection, "audio"); got != "yt|audio" {
		t.Errorf("callbackData = %q", got)
	}
}

func TestSelectionKeyboardLayout(t *testing.T) {
	mk := selectionKeyboard([]int{2160, 1440, 1080, 720, 360}).(*models.InlineKeyboardMarkup)

	// Five heights pack into rows of three, plus the audio row.
	if len(mk.InlineKeyboard) != 3 {
		t.Fatalf("keyboard has %d rows, expected 3", len(mk.InlineKeyboard))
	}
	if len(mk.InlineKeyboard[0]) != 3 || len(mk.InlineKeyboard[1]) != 2 {
		t.Errorf("row sizes = %d, %d, expected 3, 2",
			len(mk.InlineKeyboard[0]), len(mk.InlineKeyboard[1]))
	}
	if got := mk.InlineKeyboard[0][0].CallbackData; got != "yt|video|2160" {
		t.Errorf("first button data = %q", got)
	}

	last := mk.InlineKeyboard[2]
	if len(last) != 1 || last[0].CallbackData != "yt|audio" {
		t.Errorf("last row = %+v, expected the audio-only button", last)
	}
}

func TestSelectionKeyboardNoHeights(t *testing.T) {
	mk := selectionKeyboard(nil).(*models.InlineKeyboardMarkup)
	if len(mk.InlineKeyboard) != 1 {
		t.Fatalf("keyboard has %d rows, expected only the audio row", len(mk.InlineKeyboard))
	}
}

func TestCancelKeyboardActions(t *testing.T) {
	mk := cancelKeyboard("job-1").(*models.InlineKeyboardMarkup)
	if len(mk.InlineKeyboard) != 2 {
		t.Fatalf("keyboard has %d rows, expected 2", len(mk.InlineKeyboard))
	}
	if got := mk.InlineKeyboard[0][0].CallbackData; got != "cancel|del|job-1" {
		t.Errorf("discard button data = %q", got)
	}
	if got := mk.InlineKeyboard[1][0].CallbackData; got != "cancel|send|job-1" {
		t.Errorf("preserve button data = %q", got)
	}
}

func TestProgressReaderCounts(t *testing.T) {
	payload := strings.Repeat("x", 1000)
	var lastCurrent, lastTotal int64
	calls := 0

	r := newProgressReader(strings.NewReader(payload), int64(len(payload)), func(current, total int64) {
		lastCurrent, lastTotal = current, total
		calls++
	})

	var out bytes.Buffer
	if _, err := io.CopyBuffer(&out, r, make([]byte, 256)); err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	if out.Len() != len(payload) {
		t.Errorf("copied %d bytes, expected %d", out.Len(), len(payload))
	}
	if calls == 0 {
		t.Fatal("progress callback never invoked")
	}
	if lastCurrent != int64(len(payload)) || lastTotal != int64(len(payload)) {
		t.Errorf("final progress = %d/%d, expected %d/%d",
			lastCurrent, lastTotal, len(payload), len(payload))
	}
}

func TestProgressReaderNilCallback(t *testing.T) {
	src := strings.NewReader("data")
	if r := newProgressReader(src, 4, nil); r != io.Reader(src) {
		t.Error("nil callback should return the source reader unchanged")
	}
}
