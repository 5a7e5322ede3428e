package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/turbobar/internal/capture"
	"github.com/hpungsan/turbobar/internal/errors"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleCapture(id string, mode capture.Mode, createdAt int64) *Capture {
	return &Capture{
		ID:           id,
		PageID:       "page-" + id,
		URL:          "https://notion.so/page-" + id,
		CollectionID: "db-1",
		Mode:         mode,
		Title:        "Title " + id,
		Body:         "body " + id,
		Tags:         []string{"home"},
		Assignments:  capture.DefaultAssignments(),
		Summary:      capture.DefaultSummary,
		Organized:    true,
		CreatedAt:    createdAt,
	}
}

func TestInsertAndGetCapture(t *testing.T) {
	db := openTestDB(t)

	in := sampleCapture("01A", capture.ModeTask, 100)
	in.Assignments.Project = "Home Lab"
	require.NoError(t, InsertCapture(db, in))

	got, err := GetCapture(db, "01A")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestGetCapture_OptionalFields(t *testing.T) {
	db := openTestDB(t)

	in := sampleCapture("01B", capture.ModeInbox, 100)
	in.URL = ""
	in.Tags = nil
	in.Organized = false
	require.NoError(t, InsertCapture(db, in))

	got, err := GetCapture(db, "01B")
	require.NoError(t, err)
	assert.Equal(t, "", got.URL)
	assert.Equal(t, []string{}, got.Tags)
	assert.False(t, got.Organized)
}

func TestGetCapture_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := GetCapture(db, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestInsertCapture_DuplicateID(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, InsertCapture(db, sampleCapture("dup", capture.ModeTask, 1)))
	err := InsertCapture(db, sampleCapture("dup", capture.ModeTask, 2))
	assert.True(t, errors.Is(err, errors.ErrInternal))
}

func TestListCaptures(t *testing.T) {
	db := openTestDB(t)

	for i := range 5 {
		mode := capture.ModeTask
		if i%2 == 1 {
			mode = capture.ModeBrainDump
		}
		require.NoError(t, InsertCapture(db, sampleCapture(fmt.Sprintf("id%d", i), mode, int64(100+i))))
	}

	items, total, err := ListCaptures(db, "", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)
	assert.Equal(t, "id4", items[0].ID, "newest first")
	assert.Equal(t, "id3", items[1].ID)

	items, total, err = ListCaptures(db, "", 10, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 1)
	assert.Equal(t, "id0", items[0].ID)

	items, total, err = ListCaptures(db, capture.ModeBrainDump, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, item := range items {
		assert.Equal(t, capture.ModeBrainDump, item.Mode)
	}
}

func TestListCaptures_Empty(t *testing.T) {
	db := openTestDB(t)

	items, total, err := ListCaptures(db, capture.ModeInbox, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, items)
}
