package capture

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertValidAssignments checks the record invariant: enums in set, strings
// non-empty and within caps.
func assertValidAssignments(t *testing.T, a Assignments) {
	t.Helper()
	for _, label := range []string{a.Project, a.Goal, a.Area, a.SubArea} {
		assert.NotEmpty(t, label)
		assert.LessOrEqual(t, CountChars(label), MaxLabelChars)
	}
	assert.NotEmpty(t, a.NextAction)
	assert.LessOrEqual(t, CountChars(a.NextAction), MaxNextActionChars)
	assert.True(t, slices.Contains(Intents, a.Intent), "intent %q", a.Intent)
	assert.True(t, slices.Contains(Efforts, a.Effort), "effort %q", a.Effort)
	assert.True(t, slices.Contains(Energies, a.Energy), "energy %q", a.Energy)
	assert.True(t, slices.Contains(Horizons, a.Horizon), "horizon %q", a.Horizon)
	assert.True(t, slices.Contains(ProjectStatuses, a.ProjectStatus), "projectStatus %q", a.ProjectStatus)
}

func TestNormalizeAssignments_ValidCandidate(t *testing.T) {
	candidate := map[string]any{
		"project":       "Home  Lab",
		"goal":          "Reliable backups",
		"area":          "Infra",
		"subArea":       "Storage",
		"intent":        "planning",
		"effort":        "deep",
		"energy":        "high",
		"horizon":       "this-month",
		"projectStatus": "blocked",
		"nextAction":    "Order two new disks",
	}

	got := NormalizeAssignments(candidate, ModeTask, DefaultAssignments())
	assert.Equal(t, Assignments{
		Project:       "Home Lab",
		Goal:          "Reliable backups",
		Area:          "Infra",
		SubArea:       "Storage",
		Intent:        "planning",
		Effort:        "deep",
		Energy:        "high",
		Horizon:       "this-month",
		ProjectStatus: "blocked",
		NextAction:    "Order two new disks",
	}, got)
}

func TestNormalizeAssignments_ModeDependentFallbacks(t *testing.T) {
	task := NormalizeAssignments(nil, ModeTask, DefaultAssignments())
	assert.Equal(t, Intent("action"), task.Intent)
	assert.Equal(t, ProjectStatus("active"), task.ProjectStatus)
	assert.Equal(t, "Define first action step", task.NextAction)

	note := NormalizeAssignments(map[string]any{}, ModeInbox, DefaultAssignments())
	assert.Equal(t, Intent("reference"), note.Intent)
	assert.Equal(t, ProjectStatus("planned"), note.ProjectStatus)
	assert.Equal(t, "Review during triage", note.NextAction)
}

func TestNormalizeAssignments_FallbackRecordUsed(t *testing.T) {
	fallback := DefaultAssignments()
	fallback.Project = "Draft Project"
	fallback.Effort = "quick"
	// Mode-dependent fields ignore the fallback record.
	fallback.Intent = "idea"

	got := NormalizeAssignments(map[string]any{"project": nil, "effort": "huge"}, ModeTask, fallback)
	assert.Equal(t, "Draft Project", got.Project)
	assert.Equal(t, Effort("quick"), got.Effort)
	assert.Equal(t, Intent("action"), got.Intent)
}

func TestNormalizeAssignments_TotalOverHostileInput(t *testing.T) {
	broken := Assignments{Project: "   ", Effort: "nope", Horizon: "", NextAction: strings.Repeat("z", 500)}
	candidates := []any{
		nil,
		"not an object",
		42,
		[]any{"project", "x"},
		map[string]any{"project": 7, "intent": []any{"action"}, "energy": map[string]any{}},
		map[string]any{"project": strings.Repeat("long ", 50), "nextAction": "   "},
	}

	for _, mode := range Modes {
		for _, candidate := range candidates {
			got := NormalizeAssignments(candidate, mode, broken)
			assertValidAssignments(t, got)
		}
	}
}

func TestAssignments_Value(t *testing.T) {
	a := DefaultAssignments()
	a.SubArea = "Kitchen"
	a.Horizon = "someday"
	require.Equal(t, "Kitchen", a.Value(FieldSubArea))
	require.Equal(t, "someday", a.Value(FieldHorizon))
	require.Equal(t, "", a.Value(AssignmentField("unknown")))
	require.True(t, IsAssignmentField("projectStatus"))
	require.False(t, IsAssignmentField("status"))
}

func TestDefaultPropertyTargets_CoverEveryField(t *testing.T) {
	targets := DefaultPropertyTargets()
	for _, f := range AssignmentFields {
		assert.NotEmpty(t, targets[f], "field %s", f)
	}
	assert.Equal(t, "Project", targets[FieldProject])
}

func TestAssignmentTags(t *testing.T) {
	a := DefaultAssignments()
	a.Project = "Home Lab!!"
	a.SubArea = "***"

	tags := AssignmentTags(a)
	assert.Contains(t, tags, "project/home-lab")
	assert.Contains(t, tags, "sub-area/general")
	assert.Contains(t, tags, "intent/reference")
	assert.Len(t, tags, 9)
}

func TestAppendAssignmentBlock(t *testing.T) {
	got := AppendAssignmentBlock("  body  ", DefaultAssignments())
	assert.True(t, strings.HasPrefix(got, "body\n\nAI Assignments:\n- Project: General"))
	assert.True(t, strings.HasSuffix(got, "- Next Action: Review during triage"))

	alone := AppendAssignmentBlock("", DefaultAssignments())
	assert.True(t, strings.HasPrefix(alone, "AI Assignments:"))
}

func TestResolveDue(t *testing.T) {
	now := time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "", ResolveDue(DueNone, now))
	assert.Equal(t, "2026-10-31", ResolveDue(DueToday, now))
	assert.Equal(t, "2026-11-01", ResolveDue(DueTomorrow, now))
}

func TestResultFromDraft(t *testing.T) {
	got := ResultFromDraft(Draft{
		Mode:         "bogus",
		Title:        "",
		Body:         "call the plumber\nabout the leak",
		Tags:         []string{"home", "home "},
		TaskPriority: "urgent",
		DuePreset:    "later",
	})

	assert.Equal(t, ModeTask, got.Mode)
	assert.Equal(t, "call the plumber", got.Title)
	assert.Equal(t, []string{"home"}, got.Tags)
	assert.Equal(t, PriorityMedium, got.TaskPriority)
	assert.Equal(t, DueNone, got.DuePreset)
	assert.Equal(t, NoteStatusBrainDump, got.NoteStatus)
	assert.Equal(t, UnorganizedSummary, got.Summary)
	assertValidAssignments(t, got.Assignments)
}
