package quality

import (
	"fmt"
	"strconv"
	"strings"
)

// Well known preference values. Anything else is treated as a resolution
// ceiling like "720p" or "1080".
const (
	PrefAsk   = "ask"
	PrefBest  = "best"
	PrefAudio = "audio"
)

// Default preference for users that have never picked one
const DefaultPreference = PrefAsk

// Selector is the derived, ephemeral format-selection expression handed to
// the fetcher. It is computed at job-start time and never persisted.
type Selector struct {
	Format    string
	AudioOnly bool
}

// Format chains preferring an H.264/AAC pairing for player compatibility,
// falling back to any codec, then to best available.
const (
	bestFormat  = "bestvideo[vcodec^=avc1]+bestaudio[acodec^=mp4a]/bestvideo+bestaudio/best"
	audioFormat = "bestaudio/best"
)

// Best returns the unconstrained selector with the codec-preference chain
func Best() Selector {
	return Selector{Format: bestFormat}
}

// Generic returns the selector used for sites where no stored preference
// applies
func Generic() Selector {
	return Selector{Format: "bestvideo+bestaudio/best"}
}

// Audio returns the audio-only selector
func Audio() Selector {
	return Selector{Format: audioFormat, AudioOnly: true}
}

// Ceiling returns a selector bounding video height to the given ceiling,
// keeping the codec-preference chain and a final height-only fallback
func Ceiling(height int) Selector {
	return Selector{
		Format: fmt.Sprintf(
			"bestvideo[height<=%d][vcodec^=avc1]+bestaudio[acodec^=mp4a]/bestvideo[height<=%d]+bestaudio/best[height<=%d]",
			height, height, height),
	}
}

// Exact returns a selector for one specific height, used after the user
// picks a resolution from the interactive keyboard
func Exact(height int) Selector {
	return Selector{
		Format: fmt.Sprintf(
			"bestvideo[height=%d][vcodec^=avc1]+bestaudio[acodec^=mp4a]/bestvideo[height=%d]+bestaudio/best[height=%d]",
			height, height, height),
	}
}

// Resolve maps a stored preference to a concrete selector. The second return
// is true when the preference requires an interactive format choice instead.
// Malformed preferences resolve to Best rather than returning an error.
func Resolve(pref string) (Selector, bool) {
	switch strings.TrimSpace(strings.ToLower(pref)) {
	case PrefAsk, "":
		return Selector{}, true
	case PrefAudio:
		return Audio(), false
	case PrefBest:
		return Best(), false
	}

	height, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(strings.ToLower(pref)), "p"))
	if err != nil || height <= 0 {
		return Best(), false
	}
	return Ceiling(height), false
}
