package handler

import "net/http"

type statsResponse struct {
	NotesCount int64 `json:"notes_count"`
	TagsCount  int64 `json:"tags_count"`
}

// GetMe handles GET /users/me.
func (s *Server) GetMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userToResponse(currentUser(r)))
}

// GetMyStats handles GET /users/me/stats.
func (s *Server) GetMyStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.users.Stats(r.Context(), currentUser(r).ID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{NotesCount: st.NotesCount, TagsCount: st.TagsCount})
}
