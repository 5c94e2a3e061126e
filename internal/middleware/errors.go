package middleware

import (
	"encoding/json"
	"net/http"
)

// ErrorDetail and ErrorResponse form the API's JSON error envelope:
// {"error":{"code":"not_found","message":"note not found"}}.
// The handler package writes the same types.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
