package handler

import (
	"mime"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/notekeeper/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Username is accepted as an alias of Email for OAuth2-style clients.
	Username string `json:"username"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID         openapi_types.UUID `json:"id"`
	Email      string             `json:"email"`
	IsActive   bool               `json:"is_active"`
	IsVerified bool               `json:"is_verified"`
	CreatedAt  time.Time          `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type messageResponse struct {
	Message         string `json:"message"`
	AlreadyVerified *bool  `json:"already_verified,omitempty"`
}

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, userToResponse(u))
}

// Login handles POST /auth/login.
// It accepts an OAuth2 password form (username, password) or a JSON body
// (email, password).
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	email, password, ok := loginCredentials(w, r)
	if !ok {
		return
	}

	tok, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   int64(time.Until(tok.ExpiresAt).Seconds()),
	})
}

func loginCredentials(w http.ResponseWriter, r *http.Request) (email, password string, ok bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req credentialsRequest
		if !decodeJSON(w, r, &req) {
			return "", "", false
		}
		email = req.Email
		if email == "" {
			email = req.Username
		}
		return email, req.Password, true
	}

	if err := r.ParseForm(); err != nil {
		writeBodyError(w, err)
		return "", "", false
	}
	return r.PostForm.Get("username"), r.PostForm.Get("password"), true
}

// VerifyEmail handles GET /auth/verify?token=.
func (s *Server) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var token string
	if err := runtime.BindQueryParameter("form", true, true, "token", r.URL.Query(), &token); err != nil || token == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter token is required")
		return
	}

	_, already, err := s.auth.VerifyEmail(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	msg := "email verified"
	if already {
		msg = "email already verified"
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg, AlreadyVerified: &already})
}

// ResendVerification handles POST /auth/resend.
// The response is the same whether or not the address is registered.
func (s *Server) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.auth.ResendVerification(r.Context(), req.Email); err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: "if the account exists and is not verified, a new verification email has been sent",
	})
}

func userToResponse(u domain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
