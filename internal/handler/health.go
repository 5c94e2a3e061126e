package handler

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// GetHealth handles GET /healthz and GET /ping.
// It returns HTTP 200 with {"status":"ok"} while the process is serving;
// clients also call /ping periodically to keep a sleeping host awake.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
