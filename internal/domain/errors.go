package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist, or exists but belongs to another user.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, malformed email, unknown tag id).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule
// (duplicate email, duplicate tag name) or a tag that is still in use.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials or a bearer token are invalid.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotVerified is returned by login when the account's email address has
// not been confirmed yet. Handlers should map this to HTTP 403.
var ErrNotVerified = errors.New("email not verified")

// ErrInactive is returned by login when the account has been deactivated.
var ErrInactive = errors.New("account is inactive")

// ErrTagInUse is returned when deleting a tag that is still attached to notes.
var ErrTagInUse = fmt.Errorf("%w: tag is attached to one or more notes", ErrConflict)
