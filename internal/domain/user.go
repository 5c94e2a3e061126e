// Package domain contains the core data types for the Notekeeper application.
// This package has no dependencies on other internal packages and is imported
// by every one of them (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns notes.
// PasswordHash is never serialised to clients; handlers map User to a
// response type that omits it.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// Stats summarises what a user has stored.
type Stats struct {
	NotesCount int64
	TagsCount  int64
}
