package capture

import (
	"regexp"
	"strings"
)

// checklistRegex matches a "- [ ]" / "- [x]" / "- [X]" item at the start of a
// line with at least one non-space character after the brackets.
var checklistRegex = regexp.MustCompile(`(?:^|\n)\s*-\s*\[[xX ]\]\s+\S+`)

// suggestedSubtasks is appended to task bodies that carry no checklist.
var suggestedSubtasks = strings.Join([]string{
	"Suggested subtasks:",
	"- [ ] Clarify scope and constraints",
	"- [ ] Execute the core work",
	"- [ ] Review and finalize",
}, "\n")

// HasChecklistItems reports whether body contains at least one checklist item.
func HasChecklistItems(body string) bool {
	return checklistRegex.MatchString(body)
}

// EnsureTaskBodySubtasks returns the trimmed body, with a suggested subtask
// checklist appended for task mode when the body has none. Applying it twice
// gives the same result as applying it once.
func EnsureTaskBodySubtasks(mode Mode, body string) string {
	trimmed := strings.TrimSpace(body)
	if mode != ModeTask {
		return trimmed
	}
	if HasChecklistItems(trimmed) {
		return trimmed
	}
	if trimmed == "" {
		return suggestedSubtasks
	}
	return trimmed + "\n\n" + suggestedSubtasks
}
