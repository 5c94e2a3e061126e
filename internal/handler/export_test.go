package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/handler"
)

func exportFixture() []domain.ExportRow {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []domain.ExportRow{
		{
			NoteID:    uuid.NewString(),
			Title:     "Groceries",
			Content:   "milk, eggs",
			Tags:      []string{"home", "shopping"},
			CreatedAt: ts,
			UpdatedAt: ts,
		},
		{
			NoteID:    uuid.NewString(),
			Title:     "Empty",
			CreatedAt: ts,
			UpdatedAt: ts,
		},
	}
}

func exportService(rows []domain.ExportRow) *mockExportServicer {
	return &mockExportServicer{
		export: func(_ context.Context, owner uuid.UUID) ([]domain.ExportRow, error) {
			if owner != testUser.ID {
				return nil, domain.ErrNotFound
			}
			return rows, nil
		},
	}
}

func TestExportNotes_JSON(t *testing.T) {
	rows := exportFixture()

	rec := do(t, newTestHandler(handler.Services{Export: exportService(rows)}), http.MethodGet,
		"/users/me/notes/export", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []struct {
		NoteID string   `json:"note_id"`
		Title  string   `json:"title"`
		Tags   []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, rows[0].NoteID, body[0].NoteID)
	assert.Equal(t, []string{"home", "shopping"}, body[0].Tags)
	assert.NotNil(t, body[1].Tags, "rows without tags export an empty array")
}

func TestExportNotes_CSV(t *testing.T) {
	rows := exportFixture()

	rec := do(t, newTestHandler(handler.Services{Export: exportService(rows)}), http.MethodGet,
		"/users/me/notes/export?format=csv", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "notes.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one line per note")
	assert.Equal(t, []string{"note_id", "title", "content", "tags", "created_at", "updated_at"}, records[0])
	assert.Equal(t, "milk, eggs", records[1][2], "commas inside fields are quoted")
	assert.Equal(t, "home|shopping", records[1][3])
	assert.Equal(t, "2025-06-01T12:00:00Z", records[1][4])
	assert.Equal(t, "", records[2][3])
}

func TestExportNotes_400_UnknownFormat(t *testing.T) {
	rec := do(t, newTestHandler(handler.Services{Export: exportService(nil)}), http.MethodGet,
		"/users/me/notes/export?format=xml", "", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
