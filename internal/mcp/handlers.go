package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	env *ops.Env
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(env *ops.Env) *Handlers {
	return &Handlers{env: env}
}

// Request types for each tool

// WriteRequest represents the arguments for capture_write.
type WriteRequest struct {
	capture.Draft
	Organize     *bool           `json:"organize,omitempty"`
	Result       *capture.Result `json:"result,omitempty"`
	CollectionID string          `json:"collection_id,omitempty"`
}

// ListRequest represents the arguments for capture_list.
type ListRequest struct {
	Mode   string `json:"mode,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// FetchRequest represents the arguments for capture_fetch.
type FetchRequest struct {
	ID          string `json:"id"`
	IncludeBody *bool  `json:"include_body,omitempty"`
}

// SchemaRequest represents the arguments for collection_schema.
type SchemaRequest struct {
	CollectionID string `json:"collection_id,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

// Handler implementations

// HandleOrganize handles the capture_organize tool call.
func (h *Handlers) HandleOrganize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[capture.Draft](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Organize(ctx, h.env, ops.OrganizeInput{Draft: input})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleWrite handles the capture_write tool call.
func (h *Handlers) HandleWrite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[WriteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Capture(ctx, h.env, ops.CaptureInput{
		Draft:        input.Draft,
		Result:       input.Result,
		Organize:     input.Organize,
		CollectionID: input.CollectionID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles the capture_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListCaptures(h.env, ops.ListInput{
		Mode:   input.Mode,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles the capture_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.FetchCapture(h.env, ops.FetchInput{
		ID:          input.ID,
		IncludeBody: input.IncludeBody,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleSchema handles the collection_schema tool call.
func (h *Handlers) HandleSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SchemaRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CollectionSchema(ctx, h.env, ops.SchemaInput{
		CollectionID: input.CollectionID,
		Mode:         input.Mode,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result with a structured JSON payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if turboErr, ok := errors.As(err); ok {
		errorObj := map[string]any{
			"code":    turboErr.Code,
			"message": turboErr.Message,
			"status":  turboErr.Status,
		}
		// Internal details may carry paths or SQL.
		if turboErr.Code != errors.ErrInternal && turboErr.Details != nil {
			errorObj["details"] = turboErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
