package model

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{-5, "0 B"},
		{512, "512.00 B"},
		{2048, "2.00 KB"},
		{1048576, "1.00 MB"},
		{1572864, "1.50 MB"},
		{1073741824, "1.00 GB"},
	}

	for _, test := range tests {
		result := FormatBytes(test.bytes)
		if result != test.expected {
			t.Errorf("FormatBytes(%d) = %s, expected %s", test.bytes, result, test.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0s"},
		{-1, "0s"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
	}

	for _, test := range tests {
		result := FormatDuration(test.seconds)
		if result != test.expected {
			t.Errorf("FormatDuration(%d) = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestMediaInfo_Defaults(t *testing.T) {
	var mi *MediaInfo

	if mi.DisplayTitle() != "Video" {
		t.Errorf("nil MediaInfo DisplayTitle() = %s, expected Video", mi.DisplayTitle())
	}
	if mi.DisplayExt() != "mp4" {
		t.Errorf("nil MediaInfo DisplayExt() = %s, expected mp4", mi.DisplayExt())
	}

	mi = &MediaInfo{Title: "Clip", Ext: "webm"}
	if mi.DisplayTitle() != "Clip" {
		t.Errorf("DisplayTitle() = %s, expected Clip", mi.DisplayTitle())
	}
	if mi.DisplayExt() != "webm" {
		t.Errorf("DisplayExt() = %s, expected webm", mi.DisplayExt())
	}
}

func TestMediaInfo_VideoCaption(t *testing.T) {
	mi := &MediaInfo{
		Title:       "Test Clip",
		Ext:         "mp4",
		Width:       1280,
		Height:      720,
		FPS:         30,
		DurationSec: 90,
		VCodec:      "avc1",
		ACodec:      "mp4a",
		OriginalURL: "https://youtube.com/watch?v=abc",
	}

	caption := mi.VideoCaption(1048576)
	for _, want := range []string{"Test Clip.mp4", "1280x720", "01:30", "1.00 MB", "avc1", "mp4a"} {
		if !strings.Contains(caption, want) {
			t.Errorf("VideoCaption() missing %q in:\n%s", want, caption)
		}
	}
}

func TestMediaInfo_AudioCaption(t *testing.T) {
	mi := &MediaInfo{Title: "Song", ACodec: "opus", DurationSec: 30}

	caption := mi.AudioCaption(2048)
	for _, want := range []string{"Song.mp3", "00:30", "2.00 KB", "opus"} {
		if !strings.Contains(caption, want) {
			t.Errorf("AudioCaption() missing %q in:\n%s", want, caption)
		}
	}
}

func TestParseCancelAction(t *testing.T) {
	tests := []struct {
		data     string
		expected CancelAction
		ok       bool
	}{
		{"del", ActionDiscard, true},
		{"send", ActionPreserve, true},
		{"", ActionNone, false},
		{"bogus", ActionNone, false},
	}

	for _, test := range tests {
		action, ok := ParseCancelAction(test.data)
		if action != test.expected || ok != test.ok {
			t.Errorf("ParseCancelAction(%q) = (%s, %v), expected (%s, %v)",
				test.data, action, ok, test.expected, test.ok)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Plain Title", "Plain Title"},
		{"a/b\\c:d", "abcd"},
		{"***", "audio"},
		{"  trimmed  ", "trimmed"},
	}

	for _, test := range tests {
		result := SanitizeTitle(test.title)
		if result != test.expected {
			t.Errorf("SanitizeTitle(%q) = %q, expected %q", test.title, result, test.expected)
		}
	}
}
