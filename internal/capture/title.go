package capture

import (
	"regexp"
	"strings"
)

// UntitledCapture is the last-resort title.
const UntitledCapture = "Untitled capture"

// minWordCut is the smallest index at which a title may be cut on a space.
// Shorter cuts fall back to the raw character cut.
const minWordCut = 20

var (
	trailingPunctuationRegex = regexp.MustCompile(`[.!?:;,]+$`)
	lineBreakRegex           = regexp.MustCompile(`\r?\n`)
)

// ShortTitle compacts value, strips trailing punctuation and caps it at
// MaxTitleChars, preferring to cut on a word boundary.
func ShortTitle(value string) string {
	cleaned := strings.TrimSpace(trailingPunctuationRegex.ReplaceAllString(CompactWhitespace(value), ""))
	if cleaned == "" {
		return ""
	}
	if CountChars(cleaned) <= MaxTitleChars {
		return cleaned
	}

	truncated := []rune(cleaned)[:MaxTitleChars]
	cutAt := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if truncated[i] == ' ' {
			cutAt = i
			break
		}
	}
	if cutAt >= minWordCut {
		return strings.TrimSpace(string(truncated[:cutAt]))
	}
	return strings.TrimSpace(string(truncated))
}

// FallbackTitleFromInput derives a title from the draft: the shortened title,
// else the first body line with a usable short title, else UntitledCapture.
func FallbackTitleFromInput(title, body string) string {
	if t := ShortTitle(title); t != "" {
		return t
	}
	for _, line := range lineBreakRegex.Split(body, -1) {
		if t := ShortTitle(line); t != "" {
			return t
		}
	}
	return UntitledCapture
}

// NormalizeTitle returns the short title of candidate when it is a usable
// string, else the short title of fallback, else UntitledCapture. The result is
// never empty and never longer than MaxTitleChars.
func NormalizeTitle(candidate any, fallback string) string {
	if s, ok := candidate.(string); ok {
		if t := ShortTitle(s); t != "" {
			return t
		}
	}
	if t := ShortTitle(fallback); t != "" {
		return t
	}
	return UntitledCapture
}
