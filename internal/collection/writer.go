package collection

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/notion"
)

// Fixed property names and values of the task and note collections.
const (
	PropTask        = "Task"
	PropNote        = "Note"
	PropStatus      = "Status"
	PropPriority    = "Priority"
	PropNow         = "NOW"
	PropDue         = "Due"
	PropCaptureType = "Capture Type"
	PropTags        = "Tags"

	DefaultTaskStatus  = "Not started"
	DefaultCaptureType = "Quick"
)

// PageCreator creates documents in a collection.
type PageCreator interface {
	CreatePage(ctx context.Context, req notion.PageCreateRequest) (*notion.Page, error)
}

// WriterConfig configures a Writer.
type WriterConfig struct {
	Pages       PageCreator
	Schemas     SchemaLookup
	CaptureType string // empty = DefaultCaptureType
	Now         func() time.Time
	Logger      *slog.Logger
}

// Writer turns a capture result into a document.
type Writer struct {
	pages       PageCreator
	schemas     SchemaLookup
	captureType string
	now         func() time.Time
	logger      *slog.Logger
}

// WriteOutput identifies the created document. URL may be empty.
type WriteOutput struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// NewWriter creates a Writer.
func NewWriter(cfg WriterConfig) *Writer {
	w := &Writer{
		pages:       cfg.Pages,
		schemas:     cfg.Schemas,
		captureType: cfg.CaptureType,
		now:         cfg.Now,
		logger:      cfg.Logger,
	}
	if w.captureType == "" {
		w.captureType = DefaultCaptureType
	}
	if w.now == nil {
		w.now = time.Now
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w
}

// WriteCapture creates a document for result in collectionID. Assignment
// properties are added for whichever targets the collection schema knows.
// A rejected create call is returned as WRITE_FAILURE carrying the upstream
// message unchanged.
func (w *Writer) WriteCapture(ctx context.Context, result capture.Result, collectionID string, targets capture.PropertyTargets) (*WriteOutput, error) {
	props := w.baseProperties(result)

	if err := ApplyAssignmentProperties(ctx, w.schemas, collectionID, props, result.Assignments, targets); err != nil {
		return nil, err
	}

	page, err := w.pages.CreatePage(ctx, notion.PageCreateRequest{
		Parent:     notion.Parent{DatabaseID: collectionID},
		Properties: props,
		Children:   notion.BodyToParagraphBlocks(result.Body),
	})
	if err != nil {
		return nil, writeFailure(err)
	}

	w.logger.Info("capture written",
		"collection_id", collectionID,
		"page_id", page.ID,
		"mode", result.Mode,
		"properties", len(props),
	)
	return &WriteOutput{ID: page.ID, URL: page.URL}, nil
}

// baseProperties builds the mode-specific properties every document gets.
func (w *Writer) baseProperties(r capture.Result) map[string]any {
	if r.Mode.IsNote() {
		props := map[string]any{
			PropNote:        notion.Title(r.Title),
			PropStatus:      notion.Select(string(r.NoteStatus)),
			PropCaptureType: notion.Select(w.captureType),
		}
		if len(r.Tags) > 0 {
			props[PropTags] = notion.MultiSelect(r.Tags...)
		}
		return props
	}

	priority := r.TaskPriority
	if priority == "" {
		priority = capture.PriorityMedium
	}
	props := map[string]any{
		PropTask:     notion.Title(r.Title),
		PropStatus:   notion.Status(DefaultTaskStatus),
		PropPriority: notion.Select(priority),
		PropNow:      notion.Checkbox(r.TaskNow),
	}
	if due := capture.ResolveDue(r.DuePreset, w.now()); due != "" {
		props[PropDue] = notion.Date(due)
	}
	return props
}

func writeFailure(err error) error {
	var apiErr *notion.APIError
	if stderrors.As(err, &apiErr) {
		return errors.NewWriteFailure(apiErr.Status, apiErr.Message, apiErr.Body)
	}
	return errors.NewWriteFailure(0, err.Error(), "")
}
