package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is a user-owned text record. Tags is always populated by the service
// layer when a note is returned, ordered by tag name.
type Note struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Content   string
	Tags      []Tag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteSort selects the ordering of a note listing.
type NoteSort string

const (
	SortNewest NoteSort = "newest"
	SortOldest NoteSort = "oldest"
	SortAZ     NoteSort = "az"
	SortZA     NoteSort = "za"
)

// Valid reports whether s is one of the known sort orders.
func (s NoteSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortAZ, SortZA:
		return true
	}
	return false
}

// NoteQuery narrows a note listing.
// Search matches title, content, or any attached tag name, case-insensitively.
type NoteQuery struct {
	Search string
	Sort   NoteSort
	Page   PaginationParams
}
