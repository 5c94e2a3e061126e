package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/notekeeper/internal/domain"
)

type tagRequest struct {
	Name string `json:"name"`
}

type tagResponse struct {
	ID        openapi_types.UUID `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"created_at"`
}

// ListTags handles GET /tags.
// The optional ?q= query parameter filters tags by name prefix; the total is
// returned in the X-Total-Count header.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	prefix, err := queryString(r, "q")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid format for parameter q")
		return
	}
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	tags, total, err := s.tags.List(r.Context(), prefix, page)
	if err != nil {
		s.writeServiceError(w, r, err, "tag not found")
		return
	}

	resp := make([]tagResponse, len(tags))
	for i, t := range tags {
		resp[i] = tagToResponse(t)
	}
	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, resp)
}

// CreateTag handles POST /tags.
func (s *Server) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.tags.Create(r.Context(), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusCreated, tagToResponse(tag))
}

// GetTag handles GET /tags/{id}.
func (s *Server) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	tag, err := s.tags.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// RenameTag handles PUT /tags/{id}.
func (s *Server) RenameTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req tagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tag, err := s.tags.Rename(r.Context(), id, req.Name)
	if err != nil {
		s.writeServiceError(w, r, err, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, tagToResponse(tag))
}

// DeleteTag handles DELETE /tags/{id}.
// A tag still attached to notes is refused with 409.
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.tags.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err, "tag not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// tagToResponse converts a domain.Tag to its JSON representation.
func tagToResponse(t domain.Tag) tagResponse {
	return tagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}
