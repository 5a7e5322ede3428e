package organize

import (
	"strings"

	"github.com/hpungsan/turbobar/internal/capture"
)

// NormalizeResult repairs a decoded classifier response field by field, using
// draft as the fallback for every field. parsed may be any decoded JSON value;
// anything other than an object is treated as an empty object.
func NormalizeResult(parsed any, draft capture.Draft) capture.Result {
	obj, _ := parsed.(map[string]any)
	d := capture.SanitizeDraft(draft)

	mode := capture.NormalizeMode(obj["mode"], d.Mode)

	rawBody := draft.Body
	if body, ok := obj["body"].(string); ok {
		rawBody = body
	}

	summary := capture.DefaultSummary
	if s, ok := obj["summary"].(string); ok && strings.TrimSpace(s) != "" {
		summary = strings.TrimSpace(s)
	}

	return capture.Result{
		Mode:         mode,
		Title:        capture.NormalizeTitle(obj["title"], capture.FallbackTitleFromInput(draft.Title, draft.Body)),
		Body:         capture.EnsureTaskBodySubtasks(mode, rawBody),
		Tags:         capture.NormalizeTags(obj["tags"], d.Tags),
		TaskNow:      capture.NormalizeBool(obj["taskNow"], d.TaskNow),
		TaskPriority: capture.NormalizePriority(obj["taskPriority"], d.TaskPriority),
		DuePreset:    capture.NormalizeDuePreset(obj["duePreset"], d.DuePreset),
		NoteStatus:   capture.NormalizeNoteStatus(obj["noteStatus"], mode),
		Assignments:  capture.NormalizeAssignments(obj["assignments"], mode, d.Assignments),
		Summary:      summary,
	}
}
