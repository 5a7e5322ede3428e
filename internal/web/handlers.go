package web

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/db"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/ops"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	env     *ops.Env
	version string
	logger  *slog.Logger
}

// OrganizeRequest is the body of POST /api/ai/organize.
type OrganizeRequest struct {
	Input capture.Draft `json:"input"`
}

// CreateRequest is the body of POST /api/captures.
type CreateRequest struct {
	Input        capture.Draft   `json:"input"`
	Result       *capture.Result `json:"result,omitempty"`
	Organize     *bool           `json:"organize,omitempty"`
	CollectionID string          `json:"collectionId,omitempty"`
}

// DetailResponse is a journaled capture with its body rendered to HTML.
type DetailResponse struct {
	*db.Capture
	BodyHTML template.HTML `json:"body_html"`
}

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderOK(w, h.logger, map[string]any{
		"timestamp": h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"version":   h.version,
	})
}

// HandleOrganize handles POST /api/ai/organize: classify without writing.
func (h *Handlers) HandleOrganize(w http.ResponseWriter, r *http.Request) {
	const summary = "Failed to organize capture."

	var req OrganizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, h.logger, summary, err)
		return
	}

	out, err := ops.Organize(r.Context(), h.env, ops.OrganizeInput{Draft: req.Input})
	if err != nil {
		renderError(w, h.logger, summary, err)
		return
	}
	renderOK(w, h.logger, out.Result)
}

// HandleCreate handles POST /api/captures: organize (optionally) and write.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const summary = "Failed to create capture."

	var req CreateRequest
	if err := decodeBody(w, r, &req); err != nil {
		renderError(w, h.logger, summary, err)
		return
	}

	out, err := ops.Capture(r.Context(), h.env, ops.CaptureInput{
		Draft:        req.Input,
		Result:       req.Result,
		Organize:     req.Organize,
		CollectionID: req.CollectionID,
	})
	if err != nil {
		renderError(w, h.logger, summary, err)
		return
	}
	renderOK(w, h.logger, out)
}

// HandleList handles GET /api/captures: list journaled captures.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListCaptures(h.env, ops.ListInput{
		Mode:   r.URL.Query().Get("mode"),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, h.logger, "Failed to list captures.", err)
		return
	}
	renderOK(w, h.logger, out)
}

// HandleDetail handles GET /api/captures/{id}: one capture with rendered body.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	c, err := ops.FetchCapture(h.env, ops.FetchInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, h.logger, "Failed to fetch capture.", err)
		return
	}
	renderOK(w, h.logger, DetailResponse{Capture: c, BodyHTML: renderMarkdown(c.Body)})
}

// HandleSchema handles GET /api/collections/{id}/schema. The id "default"
// selects the configured collection for ?mode.
func (h *Handlers) HandleSchema(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "default" {
		id = ""
	}

	out, err := ops.CollectionSchema(r.Context(), h.env, ops.SchemaInput{
		CollectionID: id,
		Mode:         r.URL.Query().Get("mode"),
	})
	if err != nil {
		renderError(w, h.logger, "Failed to read collection schema.", err)
		return
	}
	renderOK(w, h.logger, out)
}

// HandleNotFound answers unknown /api/ routes.
func (h *Handlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusNotFound, map[string]any{
		"ok":    false,
		"error": "API route not found.",
	})
}

func (h *Handlers) now() time.Time {
	if h.env.Now != nil {
		return h.env.Now()
	}
	return time.Now()
}

// decodeBody reads a size-limited JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return errors.NewInvalidRequest("content type must be application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewInvalidRequest("invalid JSON body: " + err.Error())
	}
	return nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
