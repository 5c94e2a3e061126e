package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/notekeeper/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{"note_id", "title", "content", "tags", "created_at", "updated_at"}

type exportRow struct {
	NoteID    openapi_types.UUID `json:"note_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Tags      []string           `json:"tags"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ExportNotes handles GET /users/me/notes/export.
// It returns one flat row per note. Use ?format=csv to receive CSV; the
// default is JSON.
func (s *Server) ExportNotes(w http.ResponseWriter, r *http.Request) {
	format, err := queryString(r, "format")
	if err != nil || (format != "" && format != "json" && format != "csv") {
		writeError(w, http.StatusBadRequest, codeBadRequest, "format must be json or csv")
		return
	}

	rows, err := s.export.Export(r.Context(), currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToJSON(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV. Tags within a row are pipe-separated ("|")
// to keep each note on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(csvHeaders) // bytes.Buffer writes never fail.
	for _, r := range rows {
		_ = cw.Write([]string{
			r.NoteID,
			r.Title,
			r.Content,
			strings.Join(r.Tags, "|"),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="notes.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func domainRowToJSON(r domain.ExportRow) exportRow {
	id, _ := uuid.Parse(r.NoteID)
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return exportRow{
		NoteID:    id,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      tags,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
