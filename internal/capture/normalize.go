package capture

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Character caps, counted in runes.
const (
	MaxTitleChars      = 60
	MaxLabelChars      = 60
	MaxNextActionChars = 120
)

// CompactWhitespace collapses whitespace runs to single spaces and trims the
// ends. Unicode spaces such as U+00A0 count as whitespace.
func CompactWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountChars returns the character count as runes (not bytes).
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// truncateChars returns the first max runes of s.
func truncateChars(s string, max int) string {
	if CountChars(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// normalizeEnum passes value through only when it is a string literally equal
// to one of options. No trimming or case folding.
func normalizeEnum[T ~string](value any, options []T, fallback T) T {
	s, ok := value.(string)
	if !ok {
		return fallback
	}
	if slices.Contains(options, T(s)) {
		return T(s)
	}
	return fallback
}

// NormalizeMode returns value as a Mode, or fallback.
func NormalizeMode(value any, fallback Mode) Mode {
	return normalizeEnum(value, Modes, fallback)
}

// NormalizePriority returns value as a priority label, or fallback.
func NormalizePriority(value any, fallback string) string {
	return normalizeEnum(value, Priorities, fallback)
}

// NormalizeDuePreset returns value as a DuePreset, or fallback.
func NormalizeDuePreset(value any, fallback DuePreset) DuePreset {
	return normalizeEnum(value, DuePresets, fallback)
}

// NormalizeNoteStatus returns value as a NoteStatus, or the status implied by mode.
func NormalizeNoteStatus(value any, mode Mode) NoteStatus {
	return normalizeEnum(value, NoteStatuses, NoteStatusForMode(mode))
}

// normalizeText compacts value and caps it at max runes. Non-strings and
// strings that are empty after compaction yield fallback.
func normalizeText(value any, max int, fallback string) string {
	s, ok := value.(string)
	if !ok {
		return fallback
	}
	cleaned := CompactWhitespace(s)
	if cleaned == "" {
		return fallback
	}
	if CountChars(cleaned) <= max {
		return cleaned
	}
	return strings.TrimSpace(truncateChars(cleaned, max))
}

// NormalizeLabel normalizes a free-text assignment label (project, goal, area, sub-area).
func NormalizeLabel(value any, fallback string) string {
	return normalizeText(value, MaxLabelChars, fallback)
}

// NormalizeNextAction normalizes the free-text next action.
func NormalizeNextAction(value any, fallback string) string {
	return normalizeText(value, MaxNextActionChars, fallback)
}

// NormalizeTags keeps the non-empty trimmed strings of an array, deduplicated
// in insertion order. Deduplication is case-sensitive. Anything that is not an
// array returns fallback unchanged.
func NormalizeTags(value any, fallback []string) []string {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		items = stringsToAny(v)
	default:
		return fallback
	}

	seen := make(map[string]bool, len(items))
	tags := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		tags = append(tags, s)
	}
	return tags
}

// NormalizeBool returns value when it is a bool, else fallback.
func NormalizeBool(value any, fallback bool) bool {
	if b, ok := value.(bool); ok {
		return b
	}
	return fallback
}
