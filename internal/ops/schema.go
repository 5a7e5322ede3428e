package ops

import (
	"context"
	"slices"
	"strings"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/collection"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/notion"
)

// SchemaInput contains parameters for the CollectionSchema operation.
// Either CollectionID or Mode selects the collection.
type SchemaInput struct {
	CollectionID string
	Mode         string
}

// MappedField reports where one assignment field would be written.
type MappedField struct {
	Field    capture.AssignmentField `json:"field"`
	Property string                  `json:"property,omitempty"`
	Type     string                  `json:"type,omitempty"`
	Writable bool                    `json:"writable"`
}

// SchemaOutput describes a collection and how assignments map onto it.
type SchemaOutput struct {
	CollectionID string                   `json:"collection_id"`
	Properties   collection.PropertyTypes `json:"properties"`
	Mapping      []MappedField            `json:"mapping"`
}

// CollectionSchema discovers a collection's properties through the schema
// cache and previews the assignment mapping for it.
func CollectionSchema(ctx context.Context, env *Env, input SchemaInput) (*SchemaOutput, error) {
	if env.Schemas == nil {
		return nil, errors.NewMissingCredentials("notion_token")
	}

	mode := capture.NormalizeMode(strings.TrimSpace(input.Mode), capture.ModeTask)
	collectionID := env.Config.CollectionFor(mode)
	if strings.TrimSpace(input.CollectionID) != "" {
		collectionID = notion.NormalizeCollectionID(input.CollectionID)
		if collectionID == "" {
			return nil, errors.NewInvalidRequest("collection_id is not a valid collection id or URL")
		}
	}

	types, err := env.Schemas.PropertyTypes(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	targets := env.Config.TargetsFor(mode)
	mapping := make([]MappedField, 0, len(capture.AssignmentFields))
	for _, field := range capture.AssignmentFields {
		m := MappedField{Field: field, Property: strings.TrimSpace(targets[field])}
		if m.Property != "" {
			m.Type = types[m.Property]
			m.Writable = slices.Contains(writableTypes, m.Type)
		}
		mapping = append(mapping, m)
	}

	return &SchemaOutput{
		CollectionID: collectionID,
		Properties:   types,
		Mapping:      mapping,
	}, nil
}

var writableTypes = []string{collection.TypeSelect, collection.TypeMultiSelect, collection.TypeRichText}
