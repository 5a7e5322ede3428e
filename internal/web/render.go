package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/turbobar/internal/errors"
)

// markdown renders journal bodies. Task lists render "- [ ]" subtasks as checkboxes.
var markdown = goldmark.New(goldmark.WithExtensions(extension.TaskList))

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderOK writes data's fields alongside "ok": true.
func renderOK(w http.ResponseWriter, logger *slog.Logger, data any) {
	payload := map[string]any{}
	if data != nil {
		raw, err := json.Marshal(data)
		if err == nil {
			err = json.Unmarshal(raw, &payload)
		}
		if err != nil {
			renderError(w, logger, "Failed to encode response.", errors.NewInternal(err))
			return
		}
	}
	payload["ok"] = true
	renderJSON(w, http.StatusOK, payload)
}

// renderError writes the {ok:false,error,details} envelope. summary names the
// failed action; details carries the underlying message.
func renderError(w http.ResponseWriter, logger *slog.Logger, summary string, err error) {
	tErr, ok := errors.As(err)
	if !ok {
		tErr = errors.NewInternal(err)
	}

	if tErr.Code == errors.ErrInternal {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "code", tErr.Code, "message", tErr.Message)
	}

	payload := map[string]any{
		"ok":    false,
		"error": summary,
		"code":  string(tErr.Code),
	}
	if tErr.Message != "" {
		payload["details"] = tErr.Message
	}
	renderJSON(w, tErr.Status, payload)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
