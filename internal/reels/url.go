// Package reels fetches Instagram Reels via yt-dlp, transcribes their
// audio with Whisper, and extracts page metadata as a fallback.
package reels

import (
	"fmt"
	"regexp"

	"github.com/reelpulse/reelpulse/internal/engine"
)

// reelURLPatterns match the Instagram URL forms that carry a shortcode.
var reelURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`instagram\.com/(?:reel|reels|p)/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`instagr\.am/(?:reel|reels|p)/([a-zA-Z0-9_-]+)`),
}

var shortcodeRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{5,}$`)

// IsShortcode reports whether input looks like a bare reel shortcode.
func IsShortcode(input string) bool {
	return shortcodeRE.MatchString(input)
}

// ParseReelInput extracts a reel shortcode from an Instagram URL or
// accepts a bare shortcode. Returns ErrInvalidInput for anything else.
func ParseReelInput(input string) (string, error) {
	for _, pattern := range reelURLPatterns {
		if match := pattern.FindStringSubmatch(input); match != nil {
			return match[1], nil
		}
	}
	if IsShortcode(input) {
		return input, nil
	}
	return "", fmt.Errorf("%w: not an Instagram reel URL or shortcode: %q", engine.ErrInvalidInput, input)
}

// ReelURL returns the canonical reel URL for a shortcode.
func ReelURL(shortcode string) string {
	return "https://www.instagram.com/reel/" + shortcode + "/"
}
