// Package organize classifies capture drafts with Gemini and hardens the
// untrusted response into a valid capture.Result.
package organize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/errors"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"

	// Temperature is kept low so repeated captures classify the same way.
	Temperature = 0.2
)

// Config configures a Gateway.
type Config struct {
	APIKey     string
	Model      string // empty = DefaultModel
	BaseURL    string // empty = DefaultBaseURL
	HTTPClient *http.Client
	Now        func() time.Time
	Logger     *slog.Logger
}

// Gateway sends drafts to the Gemini generateContent endpoint.
type Gateway struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	now     func() time.Time
	logger  *slog.Logger
}

// Gemini request/response wire types.
type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
}

// NewGateway creates a Gateway. A missing API key is reported by Classify.
func NewGateway(cfg Config) *Gateway {
	g := &Gateway{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   strings.TrimSpace(cfg.Model),
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		client:  cfg.HTTPClient,
		now:     cfg.Now,
		logger:  cfg.Logger,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Model returns the model name requests are sent to.
func (g *Gateway) Model() string {
	return g.model
}

// Classify restructures draft through the classifier. The draft is never
// modified; every field it carries is the fallback for the matching result field.
func (g *Gateway) Classify(ctx context.Context, draft capture.Draft) (*capture.Result, error) {
	if g.apiKey == "" {
		return nil, errors.NewMissingCredentials("gemini_api_key")
	}

	prompt, err := BuildPrompt(draft, g.now().Format(time.DateOnly))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	req := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:      Temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	}

	respBody, err := g.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	text, err := ExtractResponseText(respBody)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, errors.NewClassificationParse(err, text)
	}

	result := NormalizeResult(parsed, draft)
	g.logger.Debug("capture classified",
		"model", g.model,
		"mode", result.Mode,
		"title", result.Title,
	)
	return &result, nil
}

// generate posts req and returns the raw response body of a 2xx reply.
func (g *Gateway) generate(ctx context.Context, req geminiRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("marshaling request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewClassificationTransport(0, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewClassificationTransport(resp.StatusCode, fmt.Sprintf("reading response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewClassificationTransport(resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// ExtractResponseText concatenates the text parts of the first candidate.
func ExtractResponseText(body []byte) (string, error) {
	var envelope any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", errors.NewClassificationEnvelope("classifier response was not JSON")
	}

	root, _ := envelope.(map[string]any)
	candidates, ok := root["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return "", errors.NewClassificationEnvelope("classifier response did not include candidates")
	}

	first, ok := candidates[0].(map[string]any)
	if !ok {
		return "", errors.NewClassificationEnvelope("classifier candidate format was invalid")
	}

	content, ok := first["content"].(map[string]any)
	if !ok {
		return "", errors.NewClassificationEnvelope("classifier candidate content was missing")
	}

	parts, ok := content["parts"].([]any)
	if !ok {
		return "", errors.NewClassificationEnvelope("classifier content parts were missing")
	}

	var b strings.Builder
	for _, part := range parts {
		p, ok := part.(map[string]any)
		if !ok {
			continue
		}
		if text, ok := p["text"].(string); ok {
			b.WriteString(text)
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.NewClassificationEnvelope("classifier response text was empty")
	}
	return text, nil
}
