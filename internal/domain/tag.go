package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a named label that can be attached to many notes.
// Tags are global, not owned by any user. Names are unique ignoring case;
// Name preserves the casing supplied by whoever created or last renamed it.
type Tag struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
