package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/handler"
)

// Hand-written test doubles; set only the function fields a test needs.

// ---- AuthServicer ----------------------------------------------------------

type mockAuthServicer struct {
	register     func(ctx context.Context, email, password string) (domain.User, error)
	login        func(ctx context.Context, email, password string) (domain.AccessToken, error)
	verifyEmail  func(ctx context.Context, token string) (domain.User, bool, error)
	resend       func(ctx context.Context, email string) error
	authenticate func(ctx context.Context, token string) (domain.User, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, email, password string) (domain.User, error) {
	return m.register(ctx, email, password)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (domain.AccessToken, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) VerifyEmail(ctx context.Context, token string) (domain.User, bool, error) {
	return m.verifyEmail(ctx, token)
}
func (m *mockAuthServicer) ResendVerification(ctx context.Context, email string) error {
	return m.resend(ctx, email)
}
func (m *mockAuthServicer) Authenticate(ctx context.Context, token string) (domain.User, error) {
	return m.authenticate(ctx, token)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// ---- UserServicer ----------------------------------------------------------

type mockUserServicer struct {
	stats func(ctx context.Context, id uuid.UUID) (domain.Stats, error)
}

func (m *mockUserServicer) Stats(ctx context.Context, id uuid.UUID) (domain.Stats, error) {
	return m.stats(ctx, id)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

// ---- NoteServicer ----------------------------------------------------------

type mockNoteServicer struct {
	create func(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error)
	get    func(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error)
	list   func(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error)
	update func(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error)
	delete func(ctx context.Context, ownerID, id uuid.UUID) error
}

func (m *mockNoteServicer) Create(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error) {
	return m.create(ctx, note, tagIDs)
}
func (m *mockNoteServicer) Get(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error) {
	return m.get(ctx, ownerID, id)
}
func (m *mockNoteServicer) List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error) {
	return m.list(ctx, ownerID, q)
}
func (m *mockNoteServicer) Update(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error) {
	return m.update(ctx, note, tagIDs)
}
func (m *mockNoteServicer) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}

var _ handler.NoteServicer = (*mockNoteServicer)(nil)

// ---- TagServicer -----------------------------------------------------------

type mockTagServicer struct {
	create func(ctx context.Context, name string) (domain.Tag, error)
	get    func(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	list   func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
	rename func(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTagServicer) Create(ctx context.Context, name string) (domain.Tag, error) {
	return m.create(ctx, name)
}
func (m *mockTagServicer) Get(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	return m.get(ctx, id)
}
func (m *mockTagServicer) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	return m.list(ctx, prefix, p)
}
func (m *mockTagServicer) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error) {
	return m.rename(ctx, id, name)
}
func (m *mockTagServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ handler.TagServicer = (*mockTagServicer)(nil)

// ---- ExportServicer --------------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
	return m.export(ctx, ownerID)
}

var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

const validToken = "valid-token"

// testUser is the account every authenticated test request runs as.
var testUser = domain.User{
	ID:         uuid.MustParse("6f1c1c7e-3b1a-4c7e-9a55-0d4f8a1b2c3d"),
	Email:      "me@example.com",
	IsActive:   true,
	IsVerified: true,
	CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
}

// newTestHandler wires a Server over svc. When svc.Auth is nil a stub that
// accepts validToken as testUser is installed.
func newTestHandler(svc handler.Services) http.Handler {
	if svc.Auth == nil {
		svc.Auth = &mockAuthServicer{}
	}
	if m, ok := svc.Auth.(*mockAuthServicer); ok && m.authenticate == nil {
		m.authenticate = func(_ context.Context, token string) (domain.User, error) {
			if token != validToken {
				return domain.User{}, domain.ErrUnauthorized
			}
			return testUser, nil
		}
	}
	return handler.NewServer(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes()
}

// do sends a request with an optional JSON body. Authenticated requests
// carry validToken.
func do(t *testing.T, h http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+validToken)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
