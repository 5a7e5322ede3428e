// Package notion is a small REST client for the Notion endpoints the capture
// pipeline needs: database retrieval and page creation.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"
	APIVersion     = "2022-06-28"
)

// Client talks to the Notion API with a single integration token.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// NewClient creates a client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   strings.TrimSpace(token),
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx reply. Message is the upstream message when the body
// carries one, else the raw body.
type APIError struct {
	Status  int
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("notion %d: %s", e.Status, e.Message)
}

// Database is the subset of a database object the pipeline reads.
// Properties stays loosely typed: property definitions are an open set.
type Database struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// Parent identifies the database a page is created in.
type Parent struct {
	DatabaseID string `json:"database_id"`
}

// PageCreateRequest is the body of POST /pages.
type PageCreateRequest struct {
	Parent     Parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []Block        `json:"children,omitempty"`
}

// Page is the created page.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// RetrieveDatabase fetches the database object for id.
func (c *Client) RetrieveDatabase(ctx context.Context, id string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(id), nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// CreatePage creates a page in a database.
func (c *Client) CreatePage(ctx context.Context, req PageCreateRequest) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Body: string(raw), Message: strings.TrimSpace(string(raw))}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Code = payload.Code
		if payload.Message != "" {
			apiErr.Message = payload.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
