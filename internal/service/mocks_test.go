package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/mail"
	"github.com/pkordes/notekeeper/internal/repo"
	"github.com/pkordes/notekeeper/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which fails the test loudly.

// ---- UserRepo --------------------------------------------------------------

type mockUserRepo struct {
	create       func(ctx context.Context, email, hash string) (domain.User, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail   func(ctx context.Context, email string) (domain.User, error)
	markVerified func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, email, hash string) (domain.User, error) {
	return m.create(ctx, email, hash)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) MarkVerified(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.markVerified(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- NoteRepo --------------------------------------------------------------

type mockNoteRepo struct {
	create       func(ctx context.Context, note domain.Note) (domain.Note, error)
	getByID      func(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error)
	list         func(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error)
	update       func(ctx context.Context, note domain.Note) (domain.Note, error)
	delete       func(ctx context.Context, ownerID, id uuid.UUID) error
	countByOwner func(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

func (m *mockNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	return m.create(ctx, note)
}
func (m *mockNoteRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error) {
	return m.getByID(ctx, ownerID, id)
}
func (m *mockNoteRepo) List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error) {
	return m.list(ctx, ownerID, q)
}
func (m *mockNoteRepo) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	return m.update(ctx, note)
}
func (m *mockNoteRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return m.delete(ctx, ownerID, id)
}
func (m *mockNoteRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return m.countByOwner(ctx, ownerID)
}

var _ repo.NoteRepo = (*mockNoteRepo)(nil)

// ---- TagRepo ---------------------------------------------------------------

type mockTagRepo struct {
	create            func(ctx context.Context, name string) (domain.Tag, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.Tag, error)
	list              func(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)
	rename            func(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error)
	delete            func(ctx context.Context, id uuid.UUID) error
	count             func(ctx context.Context) (int64, error)
	countNotes        func(ctx context.Context, id uuid.UUID) (int64, error)
	attachToNote      func(ctx context.Context, noteID, tagID uuid.UUID) error
	detachAllFromNote func(ctx context.Context, noteID uuid.UUID) error
	listByNote        func(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error)
	listByNotes       func(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error)
}

func (m *mockTagRepo) Create(ctx context.Context, name string) (domain.Tag, error) {
	return m.create(ctx, name)
}
func (m *mockTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	return m.getByID(ctx, id)
}
func (m *mockTagRepo) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	return m.list(ctx, prefix, p)
}
func (m *mockTagRepo) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error) {
	return m.rename(ctx, id, name)
}
func (m *mockTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTagRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}
func (m *mockTagRepo) CountNotes(ctx context.Context, id uuid.UUID) (int64, error) {
	return m.countNotes(ctx, id)
}
func (m *mockTagRepo) AttachToNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	return m.attachToNote(ctx, noteID, tagID)
}
func (m *mockTagRepo) DetachAllFromNote(ctx context.Context, noteID uuid.UUID) error {
	return m.detachAllFromNote(ctx, noteID)
}
func (m *mockTagRepo) ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error) {
	return m.listByNote(ctx, noteID)
}
func (m *mockTagRepo) ListByNotes(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	return m.listByNotes(ctx, noteIDs)
}

var _ repo.TagRepo = (*mockTagRepo)(nil)

// ---- Mailer ----------------------------------------------------------------

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

var _ mail.Mailer = (*recordingMailer)(nil)

// ---- TxRunner --------------------------------------------------------------

// fakeTx runs f directly and counts how often a transaction was requested.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

var _ service.TxRunner = (*fakeTx)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
