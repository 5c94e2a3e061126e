package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/middleware"
)

// tokenAuthenticator accepts exactly one token.
type tokenAuthenticator struct {
	token string
	user  domain.User
	err   error
}

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (domain.User, error) {
	if a.err != nil {
		return domain.User{}, a.err
	}
	if token != a.token {
		return domain.User{}, fmt.Errorf("bad token: %w", domain.ErrUnauthorized)
	}
	return a.user, nil
}

var _ middleware.Authenticator = tokenAuthenticator{}

func serveAuth(t *testing.T, a middleware.Authenticator, header string) (*httptest.ResponseRecorder, *domain.User) {
	t.Helper()
	var seen *domain.User
	h := middleware.RequireAuth(a, slog.New(slog.NewTextHandler(io.Discard, nil)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := middleware.UserFromContext(r.Context()); ok {
				seen = &u
			}
			w.WriteHeader(http.StatusOK)
		}),
	)
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireAuth_ValidToken(t *testing.T) {
	u := domain.User{ID: uuid.New(), Email: "a@example.com"}

	rec, seen := serveAuth(t, tokenAuthenticator{token: "good", user: u}, "Bearer good")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.ID)
}

func TestRequireAuth_SchemeIsCaseInsensitive(t *testing.T) {
	rec, _ := serveAuth(t, tokenAuthenticator{token: "good"}, "bearer good")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	rec, seen := serveAuth(t, tokenAuthenticator{token: "good"}, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Nil(t, seen)
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	rec, _ := serveAuth(t, tokenAuthenticator{token: "good"}, "Basic good")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_BadToken(t *testing.T) {
	rec, _ := serveAuth(t, tokenAuthenticator{token: "good"}, "Bearer nope")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not validate credentials")
}

func TestRequireAuth_BackendFailure(t *testing.T) {
	rec, _ := serveAuth(t, tokenAuthenticator{err: errors.New("db down")}, "Bearer good")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAuth_ErrorBodyIsTypedEnvelope(t *testing.T) {
	rec, _ := serveAuth(t, tokenAuthenticator{token: "good"}, "Bearer nope")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	dec := json.NewDecoder(rec.Body)
	dec.DisallowUnknownFields()
	var body middleware.ErrorResponse
	require.NoError(t, dec.Decode(&body))
	assert.Equal(t, "unauthorized", body.Error.Code)
	assert.NotEmpty(t, body.Error.Message)
}
