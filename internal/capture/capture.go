// Package capture holds the capture data model and the pure normalizers that
// turn untrusted values into records satisfying its invariants.
package capture

// Mode selects the capture flavour and the target collection.
type Mode string

const (
	ModeTask      Mode = "task"
	ModeBrainDump Mode = "brainDump"
	ModeInbox     Mode = "inbox"
)

// Modes lists every valid mode.
var Modes = []Mode{ModeTask, ModeBrainDump, ModeInbox}

// IsNote reports whether the mode targets the notes collection.
func (m Mode) IsNote() bool {
	return m == ModeBrainDump || m == ModeInbox
}

// Priority options, in order. Unknown values collapse to PriorityMedium.
const (
	PriorityHigh   = "P1 🔴"
	PriorityMedium = "P2 🟠"
	PriorityLow    = "P3 🟡"
)

// Priorities lists every valid task priority.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// DuePreset is a relative due date chosen at capture time.
type DuePreset string

const (
	DueNone     DuePreset = "none"
	DueToday    DuePreset = "today"
	DueTomorrow DuePreset = "tomorrow"
)

// DuePresets lists every valid due preset.
var DuePresets = []DuePreset{DueNone, DueToday, DueTomorrow}

// NoteStatus is the status written to note captures.
type NoteStatus string

const (
	NoteStatusBrainDump NoteStatus = "Brain Dump"
	NoteStatusInbox     NoteStatus = "Inbox"
)

// NoteStatuses lists every valid note status.
var NoteStatuses = []NoteStatus{NoteStatusBrainDump, NoteStatusInbox}

// NoteStatusForMode derives the note status implied by a mode.
func NoteStatusForMode(mode Mode) NoteStatus {
	if mode == ModeInbox {
		return NoteStatusInbox
	}
	return NoteStatusBrainDump
}

// Draft is the user-entered, not yet classified capture.
type Draft struct {
	Mode         Mode        `json:"mode"`
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	Tags         []string    `json:"tags"`
	TaskNow      bool        `json:"taskNow"`
	TaskPriority string      `json:"taskPriority"`
	DuePreset    DuePreset   `json:"duePreset"`
	Assignments  Assignments `json:"assignments"`
}

// Result is a draft after classification. It supersedes the draft.
type Result struct {
	Mode         Mode        `json:"mode"`
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	Tags         []string    `json:"tags"`
	TaskNow      bool        `json:"taskNow"`
	TaskPriority string      `json:"taskPriority"`
	DuePreset    DuePreset   `json:"duePreset"`
	NoteStatus   NoteStatus  `json:"noteStatus"`
	Assignments  Assignments `json:"assignments"`
	Summary      string      `json:"summary"`
}

// DefaultSummary is used when the classifier gives no usable summary.
const DefaultSummary = "Capture organized by AI."

// UnorganizedSummary marks results built straight from a draft.
const UnorganizedSummary = "Captured without AI organization."

// SanitizeDraft returns a copy of d with every enum field valid, tags
// deduplicated and a complete assignment record.
func SanitizeDraft(d Draft) Draft {
	mode := NormalizeMode(string(d.Mode), ModeTask)
	return Draft{
		Mode:         mode,
		Title:        d.Title,
		Body:         d.Body,
		Tags:         NormalizeTags(stringsToAny(d.Tags), []string{}),
		TaskNow:      d.TaskNow,
		TaskPriority: NormalizePriority(d.TaskPriority, PriorityMedium),
		DuePreset:    NormalizeDuePreset(string(d.DuePreset), DueNone),
		Assignments:  NormalizeAssignments(d.Assignments.asMap(), mode, DefaultAssignments()),
	}
}

// ResultFromDraft builds a result for a capture that skipped classification.
func ResultFromDraft(d Draft) Result {
	d = SanitizeDraft(d)
	return Result{
		Mode:         d.Mode,
		Title:        NormalizeTitle(d.Title, FallbackTitleFromInput(d.Title, d.Body)),
		Body:         d.Body,
		Tags:         d.Tags,
		TaskNow:      d.TaskNow,
		TaskPriority: d.TaskPriority,
		DuePreset:    d.DuePreset,
		NoteStatus:   NoteStatusForMode(d.Mode),
		Assignments:  d.Assignments,
		Summary:      UnorganizedSummary,
	}
}

func stringsToAny(values []string) []any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
