package collection

import (
	"context"
	"strings"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/notion"
)

// Property types an assignment value can be encoded as.
const (
	TypeSelect      = "select"
	TypeMultiSelect = "multi_select"
	TypeRichText    = "rich_text"
)

// SchemaLookup resolves the property types of a collection.
type SchemaLookup interface {
	PropertyTypes(ctx context.Context, collectionID string) (PropertyTypes, error)
}

// MapAssignmentProperties adds one property per assignment field to props.
// A field is skipped when its target name is blank, when the name is not in
// types, when its value compacts to nothing, or when the property type cannot
// hold a single label. It never fails.
func MapAssignmentProperties(props map[string]any, types PropertyTypes, a capture.Assignments, targets capture.PropertyTargets) {
	for _, field := range capture.AssignmentFields {
		name := strings.TrimSpace(targets[field])
		if name == "" {
			continue
		}
		propType, ok := types[name]
		if !ok {
			continue
		}
		value := capture.CompactWhitespace(a.Value(field))
		if value == "" {
			continue
		}

		switch propType {
		case TypeSelect:
			props[name] = notion.Select(value)
		case TypeMultiSelect:
			props[name] = notion.MultiSelect(value)
		case TypeRichText:
			props[name] = notion.RichText(value)
		}
	}
}

// ApplyAssignmentProperties discovers the collection schema and maps a onto
// props. Only schema discovery can fail; with no targets nothing is fetched.
func ApplyAssignmentProperties(ctx context.Context, schemas SchemaLookup, collectionID string, props map[string]any, a capture.Assignments, targets capture.PropertyTargets) error {
	if len(targets) == 0 {
		return nil
	}
	types, err := schemas.PropertyTypes(ctx, collectionID)
	if err != nil {
		return err
	}
	MapAssignmentProperties(props, types, a, targets)
	return nil
}
