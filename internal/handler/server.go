// Package handler implements the HTTP handlers for the Notekeeper API.
// All handlers are methods on Server. They are split into domain-specific
// files (health.go, auth.go, note.go, ...) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/middleware"
	"github.com/pkordes/notekeeper/spec"
)

// AuthServicer defines the account operations the auth handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the database or service layer.
type AuthServicer interface {
	Register(ctx context.Context, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.AccessToken, error)
	VerifyEmail(ctx context.Context, token string) (domain.User, bool, error)
	ResendVerification(ctx context.Context, email string) error
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// UserServicer defines the operations behind /users/me.
type UserServicer interface {
	Stats(ctx context.Context, id uuid.UUID) (domain.Stats, error)
}

// NoteServicer defines the business operations the note handlers depend on.
type NoteServicer interface {
	Create(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error)
	List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error)
	Update(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// TagServicer defines the business operations the tag handlers depend on.
type TagServicer interface {
	Create(ctx context.Context, name string) (domain.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExportServicer defines the operation behind GET /users/me/notes/export.
type ExportServicer interface {
	Export(ctx context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error)
}

// Services groups the Server's dependencies. Nil entries are allowed in
// tests that never reach the corresponding routes.
type Services struct {
	Auth   AuthServicer
	Users  UserServicer
	Notes  NoteServicer
	Tags   TagServicer
	Export ExportServicer
}

// Server serves every API endpoint.
type Server struct {
	auth   AuthServicer
	users  UserServicer
	notes  NoteServicer
	tags   TagServicer
	export ExportServicer
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(svc Services, log *slog.Logger) *Server {
	return &Server{
		auth:   svc.Auth,
		users:  svc.Users,
		notes:  svc.Notes,
		tags:   svc.Tags,
		export: svc.Export,
		log:    log,
	}
}

// Routes builds the chi router for the whole API. Cross-cutting middleware
// (request IDs, logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/ping", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Get("/verify", s.VerifyEmail)
		r.Post("/resend", s.ResendVerification)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.auth, s.log))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", s.GetMe)
			r.Get("/stats", s.GetMyStats)

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", s.ListNotes)
				r.Post("/", s.CreateNote)
				r.Get("/export", s.ExportNotes)
				r.Get("/{id}", s.GetNote)
				r.Put("/{id}", s.UpdateNote)
				r.Delete("/{id}", s.DeleteNote)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.ListTags)
			r.Post("/", s.CreateTag)
			r.Get("/{id}", s.GetTag)
			r.Put("/{id}", s.RenameTag)
			r.Delete("/{id}", s.DeleteTag)
		})
	})

	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

// currentUser returns the user RequireAuth put in the request context.
// Routes using it are always mounted behind RequireAuth.
func currentUser(r *http.Request) domain.User {
	u, _ := middleware.UserFromContext(r.Context())
	return u
}
