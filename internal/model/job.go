package model

import (
	"fmt"
	"strings"
	"time"
)

// Job represents a single user-initiated retrieval request
type Job struct {
	ID     string       // process-unique identifier, never reused
	Action CancelAction // pending cancel action, write-once
	Info   *MediaInfo   // most recent metadata snapshot from the fetcher
}

// MediaInfo is the metadata snapshot reported by the fetcher. It is retained
// on the job so a cancelled download can still produce a caption.
type MediaInfo struct {
	Title       string
	Ext         string
	Resolution  string
	Width       int
	Height      int
	FPS         float64
	DurationSec int
	VCodec      string
	ACodec      string
	Uploader    string
	OriginalURL string
}

// Defaults used until the fetcher reports real values
const (
	DefaultTitle    = "Video"
	DefaultVideoExt = "mp4"
	DefaultAudioExt = "mp3"
)

// DisplayTitle returns the reported title or the default placeholder
func (mi *MediaInfo) DisplayTitle() string {
	if mi == nil || mi.Title == "" {
		return DefaultTitle
	}
	return mi.Title
}

// DisplayExt returns the reported extension or "mp4"
func (mi *MediaInfo) DisplayExt() string {
	if mi == nil || mi.Ext == "" {
		return DefaultVideoExt
	}
	return mi.Ext
}

// VideoCaption builds the delivery caption for a video artifact
func (mi *MediaInfo) VideoCaption(fileSize int64) string {
	resolution := mi.Resolution
	if resolution == "" {
		resolution = fmt.Sprintf("%dx%d", mi.Width, mi.Height)
	}

	return fmt.Sprintf(
		"📹 *%s.%s*\n\n"+
			"📐 *Resolution:* %s\n"+
			"⏱ *Duration:* %s\n"+
			"💾 *Size:* %s\n"+
			"🎞 *FPS:* %g\n"+
			"⚙️ *Codec:* %s (Video) / %s (Audio)\n\n"+
			"🔗 [Original Link](%s)",
		mi.DisplayTitle(), mi.DisplayExt(),
		resolution,
		FormatDuration(mi.DurationSec),
		FormatBytes(fileSize),
		mi.FPS,
		orUnknown(mi.VCodec), orUnknown(mi.ACodec),
		mi.OriginalURL,
	)
}

// AudioCaption builds the delivery caption for an audio artifact
func (mi *MediaInfo) AudioCaption(fileSize int64) string {
	ext := mi.Ext
	if ext == "" {
		ext = DefaultAudioExt
	}

	return fmt.Sprintf(
		"🎵 *%s.%s*\n\n"+
			"⏱ *Duration:* %s\n"+
			"💾 *Size:* %s\n"+
			"🔊 *Codec:* %s\n\n"+
			"🔗 [Original Link](%s)",
		mi.DisplayTitle(), ext,
		FormatDuration(mi.DurationSec),
		FormatBytes(fileSize),
		orUnknown(mi.ACodec),
		mi.OriginalURL,
	)
}

// Performer returns the best available artist/uploader name for audio sends
func (mi *MediaInfo) Performer() string {
	if mi != nil && mi.Uploader != "" {
		return mi.Uploader
	}
	return "Unknown"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// SanitizeTitle reduces a title to a safe filename stem
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return "audio"
	}
	return safe
}

// FormatBytes renders a byte count as a human readable size
func FormatBytes(b int64) string {
	if b <= 0 {
		return "0 B"
	}
	size := float64(b)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.2f PB", size)
}

// FormatDuration renders seconds as hh:mm:ss (mm:ss below one hour)
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	d := time.Duration(seconds) * time.Second
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
