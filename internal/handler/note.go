package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/notekeeper/internal/domain"
)

// noteRequest is the body of POST and PUT /users/me/notes.
// On PUT an absent tag_ids leaves the note's tags as they are, while an
// empty array removes them all.
type noteRequest struct {
	Title   string                `json:"title"`
	Content string                `json:"content"`
	TagIDs  *[]openapi_types.UUID `json:"tag_ids"`
}

func (req noteRequest) tagIDs() []uuid.UUID {
	if req.TagIDs == nil {
		return nil
	}
	ids := make([]uuid.UUID, len(*req.TagIDs))
	copy(ids, *req.TagIDs)
	return ids
}

type noteResponse struct {
	ID        openapi_types.UUID `json:"id"`
	OwnerID   openapi_types.UUID `json:"owner_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Tags      []tagResponse      `json:"tags"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ListNotes handles GET /users/me/notes.
// Optional query parameters: q (search), sort (newest|oldest|az|za), page, limit.
// The total number of matches is returned in the X-Total-Count header.
func (s *Server) ListNotes(w http.ResponseWriter, r *http.Request) {
	q, err := queryString(r, "q")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid format for parameter q")
		return
	}
	sort, err := queryString(r, "sort")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid format for parameter sort")
		return
	}
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	notes, total, err := s.notes.List(r.Context(), currentUser(r).ID, domain.NoteQuery{
		Search: q,
		Sort:   domain.NoteSort(sort),
		Page:   page,
	})
	if err != nil {
		s.writeServiceError(w, r, err, "note not found")
		return
	}

	resp := make([]noteResponse, len(notes))
	for i, n := range notes {
		resp[i] = noteToResponse(n)
	}
	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, resp)
}

// CreateNote handles POST /users/me/notes.
func (s *Server) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := s.notes.Create(r.Context(), domain.Note{
		OwnerID: currentUser(r).ID,
		Title:   req.Title,
		Content: req.Content,
	}, req.tagIDs())
	if err != nil {
		s.writeServiceError(w, r, err, "note not found")
		return
	}
	writeJSON(w, http.StatusCreated, noteToResponse(note))
}

// GetNote handles GET /users/me/notes/{id}.
func (s *Server) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	note, err := s.notes.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		s.writeServiceError(w, r, err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(note))
}

// UpdateNote handles PUT /users/me/notes/{id}.
func (s *Server) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := s.notes.Update(r.Context(), domain.Note{
		ID:      id,
		OwnerID: currentUser(r).ID,
		Title:   req.Title,
		Content: req.Content,
	}, req.tagIDs())
	if err != nil {
		s.writeServiceError(w, r, err, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, noteToResponse(note))
}

// DeleteNote handles DELETE /users/me/notes/{id}.
func (s *Server) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.notes.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		s.writeServiceError(w, r, err, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func noteToResponse(n domain.Note) noteResponse {
	tags := make([]tagResponse, len(n.Tags))
	for i, t := range n.Tags {
		tags[i] = tagToResponse(t)
	}
	return noteResponse{
		ID:        n.ID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
