// Package embedurl converts YouTube links into iframe-friendly embed URLs.
package embedurl

import (
	"fmt"
	"regexp"
)

var (
	shortLinkRe = regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]+)`)
	watchLinkRe = regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`)
	embedLinkRe = regexp.MustCompile(`youtube(?:-nocookie)?\.com/embed/([a-zA-Z0-9_-]+)`)
)

// Normalize converts a raw video link into a canonical embed URL on the
// youtube-nocookie.com host, with related-video suggestions and branding
// disabled. Already-normalized embed URLs are returned verbatim. Input that
// matches none of the known link formats yields ok=false.
func Normalize(raw string) (url string, ok bool) {
	if raw == "" {
		return "", false
	}

	var videoID string
	if m := shortLinkRe.FindStringSubmatch(raw); m != nil {
		videoID = m[1]
	} else if m := watchLinkRe.FindStringSubmatch(raw); m != nil {
		videoID = m[1]
	} else if embedLinkRe.MatchString(raw) {
		// Already in embed format.
		return raw, true
	}

	if videoID == "" {
		return "", false
	}

	return fmt.Sprintf("https://www.youtube-nocookie.com/embed/%s?rel=0&modestbranding=1&showinfo=0", videoID), true
}
