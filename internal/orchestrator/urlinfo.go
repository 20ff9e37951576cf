package orchestrator

import (
	"net/url"
	"regexp"
	"strings"
)

// Hosts whose links are always audio extractions
var musicHosts = []string{"soundcloud.com", "mixcloud.com", "bandcamp.com"}

// Hosts served by the YouTube preference/ask flow
var youtubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"youtu.be":        true,
	"m.youtube.com":   true,
}

var youtubeIDPattern = regexp.MustCompile(
	`(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%\?]{11})`)

// parseURL validates the incoming text as a downloadable URL
func parseURL(raw string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}

// isYouTube reports whether the URL goes through the quality preference flow
func isYouTube(u *url.URL) bool {
	return youtubeHosts[strings.ToLower(u.Host)]
}

// validYouTube checks that a YouTube link actually carries a video id
func validYouTube(raw string) bool {
	return youtubeIDPattern.MatchString(raw)
}

// isMusicPlatform reports whether the host auto-switches the job to audio
func isMusicPlatform(u *url.URL) bool {
	host := strings.ToLower(u.Host)
	for _, m := range musicHosts {
		if strings.Contains(host, m) {
			return true
		}
	}
	return false
}
