package capture

import (
	"regexp"
	"strings"
)

// Intent classifies what the capture is for.
type Intent string

// Effort is the expected size of the work.
type Effort string

// Energy is the focus level the work needs.
type Energy string

// Horizon is when the capture should be dealt with.
type Horizon string

// ProjectStatus is the state of the project the capture belongs to.
type ProjectStatus string

var (
	Intents         = []Intent{"action", "reference", "idea", "planning", "follow-up"}
	Efforts         = []Effort{"quick", "medium", "deep"}
	Energies        = []Energy{"low", "medium", "high"}
	Horizons        = []Horizon{"today", "this-week", "this-month", "this-quarter", "someday"}
	ProjectStatuses = []ProjectStatus{"planned", "active", "blocked", "on-hold", "complete"}
)

// DefaultLabel is used for free-text labels with nothing better to say.
const DefaultLabel = "General"

// Assignments are the ten classification facets attached to a capture.
type Assignments struct {
	Project       string        `json:"project"`
	Goal          string        `json:"goal"`
	Area          string        `json:"area"`
	SubArea       string        `json:"subArea"`
	Intent        Intent        `json:"intent"`
	Effort        Effort        `json:"effort"`
	Energy        Energy        `json:"energy"`
	Horizon       Horizon       `json:"horizon"`
	ProjectStatus ProjectStatus `json:"projectStatus"`
	NextAction    string        `json:"nextAction"`
}

// DefaultAssignments returns the assignment record used before any classification.
func DefaultAssignments() Assignments {
	return Assignments{
		Project:       DefaultLabel,
		Goal:          DefaultLabel,
		Area:          DefaultLabel,
		SubArea:       DefaultLabel,
		Intent:        "reference",
		Effort:        "medium",
		Energy:        "medium",
		Horizon:       "this-week",
		ProjectStatus: "planned",
		NextAction:    "Review during triage",
	}
}

// AssignmentField names one assignment facet. Values match the JSON keys.
type AssignmentField string

const (
	FieldProject       AssignmentField = "project"
	FieldGoal          AssignmentField = "goal"
	FieldArea          AssignmentField = "area"
	FieldSubArea       AssignmentField = "subArea"
	FieldIntent        AssignmentField = "intent"
	FieldEffort        AssignmentField = "effort"
	FieldEnergy        AssignmentField = "energy"
	FieldHorizon       AssignmentField = "horizon"
	FieldProjectStatus AssignmentField = "projectStatus"
	FieldNextAction    AssignmentField = "nextAction"
)

// AssignmentFields lists every facet in canonical order.
var AssignmentFields = []AssignmentField{
	FieldProject, FieldGoal, FieldArea, FieldSubArea, FieldIntent,
	FieldEffort, FieldEnergy, FieldHorizon, FieldProjectStatus, FieldNextAction,
}

// IsAssignmentField reports whether name is a known facet key.
func IsAssignmentField(name string) bool {
	for _, f := range AssignmentFields {
		if string(f) == name {
			return true
		}
	}
	return false
}

// Value returns the string value of one facet.
func (a Assignments) Value(field AssignmentField) string {
	switch field {
	case FieldProject:
		return a.Project
	case FieldGoal:
		return a.Goal
	case FieldArea:
		return a.Area
	case FieldSubArea:
		return a.SubArea
	case FieldIntent:
		return string(a.Intent)
	case FieldEffort:
		return string(a.Effort)
	case FieldEnergy:
		return string(a.Energy)
	case FieldHorizon:
		return string(a.Horizon)
	case FieldProjectStatus:
		return string(a.ProjectStatus)
	case FieldNextAction:
		return a.NextAction
	}
	return ""
}

func (a Assignments) asMap() map[string]any {
	m := make(map[string]any, len(AssignmentFields))
	for _, f := range AssignmentFields {
		m[string(f)] = a.Value(f)
	}
	return m
}

// NormalizeAssignments builds a complete assignment record from an untrusted
// candidate. Intent, project status and next action fall back to values that
// depend on mode; every other field falls back to fallback. Missing, null and
// wrongly typed values are all treated as absent. It never fails.
func NormalizeAssignments(candidate any, mode Mode, fallback Assignments) Assignments {
	source, _ := candidate.(map[string]any)
	fb := sanitizeAssignments(fallback)

	intentFallback := Intent("reference")
	statusFallback := ProjectStatus("planned")
	nextActionFallback := "Review during triage"
	if mode == ModeTask {
		intentFallback = "action"
		statusFallback = "active"
		nextActionFallback = "Define first action step"
	}

	return Assignments{
		Project:       NormalizeLabel(source["project"], fb.Project),
		Goal:          NormalizeLabel(source["goal"], fb.Goal),
		Area:          NormalizeLabel(source["area"], fb.Area),
		SubArea:       NormalizeLabel(source["subArea"], fb.SubArea),
		Intent:        normalizeEnum(source["intent"], Intents, intentFallback),
		Effort:        normalizeEnum(source["effort"], Efforts, fb.Effort),
		Energy:        normalizeEnum(source["energy"], Energies, fb.Energy),
		Horizon:       normalizeEnum(source["horizon"], Horizons, fb.Horizon),
		ProjectStatus: normalizeEnum(source["projectStatus"], ProjectStatuses, statusFallback),
		NextAction:    NormalizeNextAction(source["nextAction"], nextActionFallback),
	}
}

// sanitizeAssignments repairs a caller-supplied fallback record against the
// defaults so it can never leak an empty or out-of-set value.
func sanitizeAssignments(a Assignments) Assignments {
	d := DefaultAssignments()
	return Assignments{
		Project:       NormalizeLabel(a.Project, d.Project),
		Goal:          NormalizeLabel(a.Goal, d.Goal),
		Area:          NormalizeLabel(a.Area, d.Area),
		SubArea:       NormalizeLabel(a.SubArea, d.SubArea),
		Intent:        normalizeEnum(string(a.Intent), Intents, d.Intent),
		Effort:        normalizeEnum(string(a.Effort), Efforts, d.Effort),
		Energy:        normalizeEnum(string(a.Energy), Energies, d.Energy),
		Horizon:       normalizeEnum(string(a.Horizon), Horizons, d.Horizon),
		ProjectStatus: normalizeEnum(string(a.ProjectStatus), ProjectStatuses, d.ProjectStatus),
		NextAction:    NormalizeNextAction(a.NextAction, d.NextAction),
	}
}

// PropertyTargets maps each facet to the external property name it is written to.
// A missing or blank name means the facet is not written.
type PropertyTargets map[AssignmentField]string

// DefaultPropertyTargets returns the canonical capitalized property names.
func DefaultPropertyTargets() PropertyTargets {
	return PropertyTargets{
		FieldProject:       "Project",
		FieldGoal:          "Goal",
		FieldArea:          "Area",
		FieldSubArea:       "Sub-Area",
		FieldIntent:        "Intent",
		FieldEffort:        "Effort",
		FieldEnergy:        "Energy",
		FieldHorizon:       "Horizon",
		FieldProjectStatus: "Project Status",
		FieldNextAction:    "Next Action",
	}
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// SlugTag lowercases value and joins alphanumeric runs with dashes.
func SlugTag(value string) string {
	slug := strings.Trim(slugRegex.ReplaceAllString(strings.ToLower(value), "-"), "-")
	if slug == "" {
		return "general"
	}
	return slug
}

// AssignmentTags renders the facets as hierarchical note tags.
func AssignmentTags(a Assignments) []string {
	return []string{
		"project/" + SlugTag(a.Project),
		"goal/" + SlugTag(a.Goal),
		"area/" + SlugTag(a.Area),
		"sub-area/" + SlugTag(a.SubArea),
		"intent/" + string(a.Intent),
		"effort/" + string(a.Effort),
		"energy/" + string(a.Energy),
		"horizon/" + string(a.Horizon),
		"project-status/" + string(a.ProjectStatus),
	}
}

// AppendAssignmentBlock appends a readable summary of the facets to body.
func AppendAssignmentBlock(body string, a Assignments) string {
	block := strings.Join([]string{
		"AI Assignments:",
		"- Project: " + a.Project,
		"- Goal: " + a.Goal,
		"- Area: " + a.Area,
		"- Sub-Area: " + a.SubArea,
		"- Intent: " + string(a.Intent),
		"- Effort: " + string(a.Effort),
		"- Energy: " + string(a.Energy),
		"- Horizon: " + string(a.Horizon),
		"- Project Status: " + string(a.ProjectStatus),
		"- Next Action: " + a.NextAction,
	}, "\n")

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return block
	}
	return trimmed + "\n\n" + block
}
