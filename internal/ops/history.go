package ops

import (
	"strings"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/db"
	"github.com/hpungsan/turbobar/internal/errors"
)

// ListInput contains parameters for the ListCaptures operation.
type ListInput struct {
	Mode   string // optional: task, brainDump or inbox
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ListOutput contains the result of the ListCaptures operation.
type ListOutput struct {
	Items      []db.CaptureSummary `json:"items"`
	Pagination Pagination          `json:"pagination"`
	Sort       string              `json:"sort"`
}

// ListCaptures returns journaled captures, newest first.
func ListCaptures(env *Env, input ListInput) (*ListOutput, error) {
	var mode capture.Mode
	if m := strings.TrimSpace(input.Mode); m != "" {
		mode = capture.NormalizeMode(m, "")
		if mode == "" {
			return nil, errors.NewInvalidRequest("mode must be one of: task, brainDump, inbox")
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	items, total, err := db.ListCaptures(env.DB, mode, limit, offset)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []db.CaptureSummary{}
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}

// FetchInput contains parameters for the FetchCapture operation.
type FetchInput struct {
	ID          string
	IncludeBody *bool // default: true (nil means default)
}

// FetchCapture retrieves one journaled capture.
func FetchCapture(env *Env, input FetchInput) (*db.Capture, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	c, err := db.GetCapture(env.DB, id)
	if err != nil {
		return nil, err
	}
	if input.IncludeBody != nil && !*input.IncludeBody {
		c.Body = ""
	}
	return c, nil
}
