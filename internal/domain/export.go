package domain

import "time"

// ExportRow is a single row in a user's note export.
// It is a flat view: one row per note, with tag names ordered alphabetically.
// Callers that need a joined string (e.g. CSV) should join Tags themselves.
type ExportRow struct {
	NoteID    string
	Title     string
	Content   string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
