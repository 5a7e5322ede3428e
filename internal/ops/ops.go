package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/collection"
	"github.com/hpungsan/turbobar/internal/config"
	"github.com/hpungsan/turbobar/internal/errors"
	"github.com/hpungsan/turbobar/internal/notion"
	"github.com/hpungsan/turbobar/internal/organize"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Organizer classifies a draft.
type Organizer interface {
	Classify(ctx context.Context, draft capture.Draft) (*capture.Result, error)
}

// CaptureWriter writes a result into a collection.
type CaptureWriter interface {
	WriteCapture(ctx context.Context, result capture.Result, collectionID string, targets capture.PropertyTargets) (*collection.WriteOutput, error)
}

// Env carries the dependencies operations share. Writer and Schemas are nil
// when no Notion token is configured.
type Env struct {
	DB        *sql.DB
	Config    *config.Config
	Organizer Organizer
	Writer    CaptureWriter
	Schemas   collection.SchemaLookup
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewEnv wires the Gemini gateway, the Notion client, the schema cache and
// the writer from cfg.
func NewEnv(database *sql.DB, cfg *config.Config, logger *slog.Logger) *Env {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}

	env := &Env{
		DB:     database,
		Config: cfg,
		Logger: logger,
		Now:    time.Now,
		Organizer: organize.NewGateway(organize.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
			Logger:     logger,
		}),
	}

	if cfg.NotionToken != "" {
		opts := []notion.Option{notion.WithHTTPClient(httpClient)}
		if cfg.NotionBaseURL != "" {
			opts = append(opts, notion.WithBaseURL(cfg.NotionBaseURL))
		}
		client := notion.NewClient(cfg.NotionToken, opts...)
		schemas := collection.NewSchemaCache(client,
			collection.WithTTL(cfg.SchemaCacheTTL()),
			collection.WithLogger(logger),
		)
		env.Schemas = schemas
		env.Writer = collection.NewWriter(collection.WriterConfig{
			Pages:       client,
			Schemas:     schemas,
			CaptureType: cfg.NoteCaptureType,
			Logger:      logger,
		})
	}
	return env
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// validateDraft rejects drafts with neither a title nor a body.
func validateDraft(d capture.Draft) error {
	if strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Body) == "" {
		return errors.NewInvalidRequest("title or body is required")
	}
	return nil
}

// generateULID creates a new ULID for journal entries.
func generateULID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
