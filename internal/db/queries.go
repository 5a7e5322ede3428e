package db

import (
	"database/sql"
	"encoding/json"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/errors"
)

// Capture is one journaled write.
type Capture struct {
	ID           string              `json:"id"`
	PageID       string              `json:"page_id"`
	URL          string              `json:"url,omitempty"`
	CollectionID string              `json:"collection_id"`
	Mode         capture.Mode        `json:"mode"`
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	Tags         []string            `json:"tags"`
	Assignments  capture.Assignments `json:"assignments"`
	Summary      string              `json:"summary"`
	Organized    bool                `json:"organized"`
	CreatedAt    int64               `json:"created_at"`
}

// CaptureSummary is a journal entry without its body.
type CaptureSummary struct {
	ID           string       `json:"id"`
	PageID       string       `json:"page_id"`
	URL          string       `json:"url,omitempty"`
	CollectionID string       `json:"collection_id"`
	Mode         capture.Mode `json:"mode"`
	Title        string       `json:"title"`
	Summary      string       `json:"summary"`
	Organized    bool         `json:"organized"`
	CreatedAt    int64        `json:"created_at"`
}

// InsertCapture records a written capture.
func InsertCapture(db *sql.DB, c *Capture) error {
	var tagsJSON sql.NullString
	if len(c.Tags) > 0 {
		data, err := json.Marshal(c.Tags)
		if err != nil {
			return errors.NewInternal(err)
		}
		tagsJSON = sql.NullString{String: string(data), Valid: true}
	}

	assignmentsJSON, err := json.Marshal(c.Assignments)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO captures (
			id, page_id, url, collection_id, mode, title, body,
			tags_json, assignments_json, summary, organized, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		c.ID, c.PageID, toNullString(c.URL), c.CollectionID, string(c.Mode), c.Title, c.Body,
		tagsJSON, string(assignmentsJSON), c.Summary, c.Organized, c.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetCapture retrieves a journal entry by its ULID.
func GetCapture(db *sql.DB, id string) (*Capture, error) {
	query := `
		SELECT id, page_id, url, collection_id, mode, title, body,
			tags_json, assignments_json, summary, organized, created_at
		FROM captures
		WHERE id = ?
	`

	var (
		c               Capture
		url             sql.NullString
		mode            string
		tagsJSON        sql.NullString
		assignmentsJSON string
	)
	err := db.QueryRow(query, id).Scan(
		&c.ID, &c.PageID, &url, &c.CollectionID, &mode, &c.Title, &c.Body,
		&tagsJSON, &assignmentsJSON, &c.Summary, &c.Organized, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	c.URL = url.String
	c.Mode = capture.Mode(mode)
	c.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &c.Tags); err != nil {
			return nil, errors.NewInternal(err)
		}
	}
	if err := json.Unmarshal([]byte(assignmentsJSON), &c.Assignments); err != nil {
		return nil, errors.NewInternal(err)
	}
	return &c, nil
}

// ListCaptures returns journal summaries, newest first, and the total count
// matching mode. An empty mode matches every entry.
func ListCaptures(db *sql.DB, mode capture.Mode, limit, offset int) ([]CaptureSummary, int, error) {
	where := ""
	args := []any{}
	if mode != "" {
		where = "WHERE mode = ?"
		args = append(args, string(mode))
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM captures "+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, page_id, url, collection_id, mode, title, summary, organized, created_at
		FROM captures ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []CaptureSummary
	for rows.Next() {
		var (
			s    CaptureSummary
			url  sql.NullString
			mode string
		)
		if err := rows.Scan(&s.ID, &s.PageID, &url, &s.CollectionID, &mode, &s.Title, &s.Summary, &s.Organized, &s.CreatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.URL = url.String
		s.Mode = capture.Mode(mode)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return items, total, nil
}

// toNullString stores empty strings as NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
