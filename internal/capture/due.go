package capture

import "time"

// ResolveDue turns a due preset into an ISO date (YYYY-MM-DD) relative to now.
// DueNone and unknown presets resolve to "".
func ResolveDue(preset DuePreset, now time.Time) string {
	switch preset {
	case DueToday:
		return now.Format(time.DateOnly)
	case DueTomorrow:
		return now.AddDate(0, 0, 1).Format(time.DateOnly)
	}
	return ""
}
