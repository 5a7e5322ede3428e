package organize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hpungsan/turbobar/internal/capture"
)

// Schema is the subset of the Gemini response schema the organizer needs.
type Schema struct {
	Type       string             `json:"type"`
	Enum       []string           `json:"enum,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

func stringSchema() *Schema { return &Schema{Type: "STRING"} }

func enumSchema[T ~string](options []T) *Schema {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = string(o)
	}
	return &Schema{Type: "STRING", Enum: values}
}

// ResponseSchema describes the JSON object the classifier must return.
func ResponseSchema() *Schema {
	assignmentKeys := make([]string, len(capture.AssignmentFields))
	for i, f := range capture.AssignmentFields {
		assignmentKeys[i] = string(f)
	}

	return &Schema{
		Type: "OBJECT",
		Required: []string{
			"mode", "title", "body", "tags", "taskNow", "taskPriority",
			"duePreset", "noteStatus", "assignments", "summary",
		},
		Properties: map[string]*Schema{
			"mode":         enumSchema(capture.Modes),
			"title":        stringSchema(),
			"body":         stringSchema(),
			"tags":         {Type: "ARRAY", Items: stringSchema()},
			"taskNow":      {Type: "BOOLEAN"},
			"taskPriority": enumSchema(capture.Priorities),
			"duePreset":    enumSchema(capture.DuePresets),
			"noteStatus":   enumSchema(capture.NoteStatuses),
			"assignments": {
				Type:     "OBJECT",
				Required: assignmentKeys,
				Properties: map[string]*Schema{
					"project":       stringSchema(),
					"goal":          stringSchema(),
					"area":          stringSchema(),
					"subArea":       stringSchema(),
					"intent":        enumSchema(capture.Intents),
					"effort":        enumSchema(capture.Efforts),
					"energy":        enumSchema(capture.Energies),
					"horizon":       enumSchema(capture.Horizons),
					"projectStatus": enumSchema(capture.ProjectStatuses),
					"nextAction":    stringSchema(),
				},
			},
			"summary": stringSchema(),
		},
	}
}

// quoted renders options as `"a", "b", "c"`.
func quoted[T ~string](options []T) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = fmt.Sprintf("%q", string(o))
	}
	return strings.Join(parts, ", ")
}

// BuildInstructions returns the organizer instructions. todayISO anchors
// relative due dates.
func BuildInstructions(todayISO string) string {
	var b strings.Builder
	b.WriteString("You are Turbo Bar's capture organizer.\n")
	b.WriteString("Input is a rough brain dump/task capture. Return structured JSON only.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Choose mode:\n")
	b.WriteString("  - \"task\" when this is an actionable item someone should do.\n")
	b.WriteString("  - \"brainDump\" when this is a thought/reference/idea for later.\n")
	b.WriteString("  - \"inbox\" when it is a note that still needs review/triage.\n")
	fmt.Fprintf(&b, "- Clean title: concise and specific (3-8 words, max %d chars). If title is weak or missing, create a better short one from body/context.\n", capture.MaxTitleChars)
	b.WriteString("- Keep body useful but concise; preserve important details and links.\n")
	b.WriteString("- For task mode, include a \"Suggested subtasks:\" section in body with 2-5 checklist lines formatted as \"- [ ] ...\".\n")
	b.WriteString("- Choose tags only for note modes (brainDump/inbox). For task mode, tags can be empty.\n")
	b.WriteString("- Always assign:\n")
	fmt.Fprintf(&b, "  - project, goal, area, subArea: short labels (1-4 words). Use %q when unclear.\n", capture.DefaultLabel)
	fmt.Fprintf(&b, "  - intent: one of %s.\n", quoted(capture.Intents))
	fmt.Fprintf(&b, "  - effort: one of %s.\n", quoted(capture.Efforts))
	fmt.Fprintf(&b, "  - energy: one of %s.\n", quoted(capture.Energies))
	fmt.Fprintf(&b, "  - horizon: one of %s.\n", quoted(capture.Horizons))
	fmt.Fprintf(&b, "  - projectStatus: one of %s.\n", quoted(capture.ProjectStatuses))
	b.WriteString("  - nextAction: 3-10 words, concrete and specific.\n")
	fmt.Fprintf(&b, "- taskPriority must be one of: %s.\n", quoted(capture.Priorities))
	fmt.Fprintf(&b, "- duePreset must be one of: %s, relative to %s.\n", quoted(capture.DuePresets), todayISO)
	fmt.Fprintf(&b, "- noteStatus must be %s.\n", strings.Replace(quoted(capture.NoteStatuses), ", ", " or ", 1))
	b.WriteString("- summary should be one short sentence explaining the categorization.\n")
	return b.String()
}

// BuildPrompt joins the instructions with the serialized draft.
func BuildPrompt(draft capture.Draft, todayISO string) (string, error) {
	input, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling draft: %w", err)
	}
	return BuildInstructions(todayISO) + "\n\nInput JSON:\n" + string(input), nil
}
