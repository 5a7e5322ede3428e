package ops

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/db"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/notion"
	"github.com/hpungsan/turbobar/internal/organize"
)

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	Draft capture.Draft

	// Result is a classification obtained earlier (for example from Organize
	// and then edited). It is re-validated against Draft and skips the
	// classifier.
	Result *capture.Result

	// Organize overrides the auto_organize setting. nil = use config.
	Organize *bool

	// CollectionID overrides the configured collection for the mode.
	// Accepts ids or database URLs.
	CollectionID string
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	ID           string         `json:"id,omitempty"`
	PageID       string         `json:"page_id"`
	URL          string         `json:"url,omitempty"`
	CollectionID string         `json:"collection_id"`
	Organized    bool           `json:"organized"`
	Result       capture.Result `json:"result"`
}

// Capture optionally classifies a draft, writes it to its collection and
// journals the write. Classification and write errors are returned unchanged;
// a journal failure is only logged because the document already exists.
func Capture(ctx context.Context, env *Env, input CaptureInput) (*CaptureOutput, error) {
	if input.Result == nil {
		if err := validateDraft(input.Draft); err != nil {
			return nil, err
		}
	}
	if env.Writer == nil {
		return nil, errors.NewMissingCredentials("notion_token")
	}

	result, organized, err := resolveResult(ctx, env, input)
	if err != nil {
		return nil, err
	}

	collectionID := env.Config.CollectionFor(result.Mode)
	if strings.TrimSpace(input.CollectionID) != "" {
		collectionID = notion.NormalizeCollectionID(input.CollectionID)
		if collectionID == "" {
			return nil, errors.NewInvalidRequest("collection_id is not a valid collection id or URL")
		}
	}

	// Unclassified captures carry placeholder assignments, which are not written.
	var targets capture.PropertyTargets
	if organized {
		targets = env.Config.TargetsFor(result.Mode)
		result = withAssignmentExtras(result)
	} else {
		result.Body = strings.TrimSpace(result.Body)
	}

	written, err := env.Writer.WriteCapture(ctx, result, collectionID, targets)
	if err != nil {
		return nil, err
	}

	out := &CaptureOutput{
		PageID:       written.ID,
		URL:          written.URL,
		CollectionID: collectionID,
		Organized:    organized,
		Result:       result,
	}
	out.ID = journal(env, out)
	return out, nil
}

// resolveResult picks the result to write: a supplied one, a fresh
// classification, or the draft as is.
func resolveResult(ctx context.Context, env *Env, input CaptureInput) (capture.Result, bool, error) {
	if input.Result != nil {
		raw, err := json.Marshal(input.Result)
		if err != nil {
			return capture.Result{}, false, errors.NewInternal(err)
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return capture.Result{}, false, errors.NewInternal(err)
		}
		fallback := input.Draft
		if strings.TrimSpace(fallback.Title) == "" && strings.TrimSpace(fallback.Body) == "" {
			fallback.Title = input.Result.Title
			fallback.Body = input.Result.Body
		}
		return organize.NormalizeResult(parsed, fallback), true, nil
	}

	shouldOrganize := env.Config.AutoOrganizeEnabled()
	if input.Organize != nil {
		shouldOrganize = *input.Organize
	}
	if !shouldOrganize {
		return capture.ResultFromDraft(input.Draft), false, nil
	}

	result, err := env.Organizer.Classify(ctx, capture.SanitizeDraft(input.Draft))
	if err != nil {
		return capture.Result{}, false, err
	}
	return *result, true, nil
}

// withAssignmentExtras records the assignments inside the document itself:
// tasks get an assignment block, notes get assignment tags.
func withAssignmentExtras(r capture.Result) capture.Result {
	if r.Mode.IsNote() {
		merged := append(append([]string{}, r.Tags...), capture.AssignmentTags(r.Assignments)...)
		r.Tags = capture.NormalizeTags(merged, r.Tags)
		return r
	}
	r.Body = capture.AppendAssignmentBlock(r.Body, r.Assignments)
	return r
}

// journal records a successful write and returns its id, or "" if recording failed.
func journal(env *Env, out *CaptureOutput) string {
	if env.DB == nil {
		return ""
	}
	now := env.now()
	id, err := generateULID(now)
	if err != nil {
		env.logger().Warn("journal id generation failed", "error", err)
		return ""
	}

	entry := &db.Capture{
		ID:           id,
		PageID:       out.PageID,
		URL:          out.URL,
		CollectionID: out.CollectionID,
		Mode:         out.Result.Mode,
		Title:        out.Result.Title,
		Body:         out.Result.Body,
		Tags:         out.Result.Tags,
		Assignments:  out.Result.Assignments,
		Summary:      out.Result.Summary,
		Organized:    out.Organized,
		CreatedAt:    now.Unix(),
	}
	if err := db.InsertCapture(env.DB, entry); err != nil {
		env.logger().Warn("capture journal write failed", "page_id", out.PageID, "error", err)
		return ""
	}
	return id
}
