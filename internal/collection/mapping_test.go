package collection

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/notion"
)

type staticSchemas struct {
	types PropertyTypes
	err   error
	calls int
}

func (s *staticSchemas) PropertyTypes(context.Context, string) (PropertyTypes, error) {
	s.calls++
	return s.types, s.err
}

func sampleAssignments() capture.Assignments {
	a := capture.DefaultAssignments()
	a.Project = "Home  Lab"
	a.Goal = "Backups"
	a.Area = "Infra"
	a.SubArea = "Storage"
	a.Intent = "action"
	a.NextAction = "Order disks"
	return a
}

func TestMapAssignmentProperties_EncodesByType(t *testing.T) {
	types := PropertyTypes{
		"Project":     TypeSelect,
		"Goal":        TypeMultiSelect,
		"Next Action": TypeRichText,
	}
	props := map[string]any{}

	MapAssignmentProperties(props, types, sampleAssignments(), capture.DefaultPropertyTargets())

	assert.Equal(t, map[string]any{
		"Project":     notion.Select("Home Lab"),
		"Goal":        notion.MultiSelect("Backups"),
		"Next Action": notion.RichText("Order disks"),
	}, props)
}

func TestMapAssignmentProperties_MissingTargetProperty(t *testing.T) {
	targets := capture.DefaultPropertyTargets()
	targets[capture.FieldProject] = "Initiative"
	types := PropertyTypes{"Project": TypeSelect, "Area": TypeSelect}
	props := map[string]any{"Task": notion.Title("x")}

	MapAssignmentProperties(props, types, sampleAssignments(), targets)

	assert.NotContains(t, props, "Initiative")
	assert.NotContains(t, props, "Project")
	assert.Contains(t, props, "Area")
	assert.Contains(t, props, "Task")
}

func TestMapAssignmentProperties_Skips(t *testing.T) {
	tests := []struct {
		name    string
		types   PropertyTypes
		targets capture.PropertyTargets
		mutate  func(*capture.Assignments)
	}{
		{
			name:    "blank target",
			types:   PropertyTypes{"Project": TypeSelect},
			targets: capture.PropertyTargets{capture.FieldProject: "   "},
		},
		{
			name:    "unsupported types",
			types:   PropertyTypes{"Project": "number", "Goal": "status", "Area": "date", "Sub-Area": "title", "Intent": "relation"},
			targets: capture.DefaultPropertyTargets(),
		},
		{
			name:    "empty value",
			types:   PropertyTypes{"Project": TypeSelect},
			targets: capture.DefaultPropertyTargets(),
			mutate:  func(a *capture.Assignments) { a.Project = " \t " },
		},
		{
			name:    "no targets",
			types:   PropertyTypes{"Project": TypeSelect},
			targets: nil,
		},
		{
			name:    "empty schema",
			types:   nil,
			targets: capture.DefaultPropertyTargets(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleAssignments()
			if tt.mutate != nil {
				tt.mutate(&a)
			}
			props := map[string]any{}
			MapAssignmentProperties(props, tt.types, a, tt.targets)
			assert.Empty(t, props)
		})
	}
}

func TestMapAssignmentProperties_TrimsTargetName(t *testing.T) {
	props := map[string]any{}
	targets := capture.PropertyTargets{capture.FieldEffort: "  Effort  "}
	MapAssignmentProperties(props, PropertyTypes{"Effort": TypeSelect}, sampleAssignments(), targets)
	assert.Equal(t, notion.Select("medium"), props["Effort"])
}

func TestApplyAssignmentProperties(t *testing.T) {
	t.Run("schema error propagates", func(t *testing.T) {
		schemas := &staticSchemas{err: stderrors.New("down")}
		err := ApplyAssignmentProperties(context.Background(), schemas, "db", map[string]any{}, sampleAssignments(), capture.DefaultPropertyTargets())
		require.Error(t, err)
	})

	t.Run("no targets skips discovery", func(t *testing.T) {
		schemas := &staticSchemas{err: stderrors.New("down")}
		err := ApplyAssignmentProperties(context.Background(), schemas, "db", map[string]any{}, sampleAssignments(), nil)
		require.NoError(t, err)
		assert.Equal(t, 0, schemas.calls)
	})

	t.Run("maps discovered properties", func(t *testing.T) {
		schemas := &staticSchemas{types: PropertyTypes{"Horizon": TypeSelect}}
		props := map[string]any{}
		err := ApplyAssignmentProperties(context.Background(), schemas, "db", props, sampleAssignments(), capture.DefaultPropertyTargets())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Horizon": notion.Select("this-week")}, props)
	})
}
