package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/middleware"
)

// Error codes returned in the "code" field of every error body.
const (
	codeValidation       = "validation_error"
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeConflict         = "conflict"
	codeUnauthorized     = "unauthorized"
	codeForbidden        = "forbidden"
	codeTooLarge         = "payload_too_large"
	codeMethodNotAllowed = "method_not_allowed"
	codeInternal         = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, middleware.ErrorResponse{Error: middleware.ErrorDetail{Code: code, Message: message}})
}

// writeServiceError maps a service error onto the matching HTTP status.
// notFound is the message used for domain.ErrNotFound, since only the
// handler knows what was being looked up. Unrecognised errors are logged and
// answered with a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, notFound)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, codeConflict, unwrapMessage(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, http.StatusUnauthorized, codeUnauthorized, unwrapMessage(err, domain.ErrUnauthorized))
	case errors.Is(err, domain.ErrNotVerified):
		writeError(w, http.StatusForbidden, codeForbidden, domain.ErrNotVerified.Error())
	case errors.Is(err, domain.ErrInactive):
		writeError(w, http.StatusForbidden, codeForbidden, domain.ErrInactive.Error())
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, codeInternal, "an unexpected error occurred")
	}
}

// unwrapMessage extracts the human-readable part that follows the sentinel
// in a wrapped error, e.g.
// "service.NoteService.Create: validation error: title is required" -> "title is required".
// When nothing follows the sentinel its own text is returned.
func unwrapMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// decodeJSON reads a JSON request body into dst. On failure it writes the
// response itself (413 for oversize bodies, 400 otherwise) and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	writeBodyError(w, err)
	return false
}

// writeBodyError answers a request whose body could not be read or parsed.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, codeBadRequest, "request body is required")
	default:
		writeError(w, http.StatusBadRequest, codeBadRequest, "malformed request body")
	}
}
