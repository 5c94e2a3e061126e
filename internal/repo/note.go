package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/notekeeper/internal/domain"
)

// NoteRepo defines the persistence operations for Notes.
// Every read and write is scoped to an owner: a note that belongs to someone
// else behaves exactly like a note that does not exist.
// Tags are not loaded here; see TagRepo.ListByNotes.
type NoteRepo interface {
	// Create inserts a new note and returns it with server-generated fields populated.
	Create(ctx context.Context, note domain.Note) (domain.Note, error)

	// GetByID retrieves a single note owned by ownerID.
	// Returns domain.ErrNotFound if no such note exists for that owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error)

	// List returns one page of ownerID's notes matching q, plus the total
	// number of matching notes across all pages.
	List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error)

	// Update replaces title and content of an existing note and bumps updated_at.
	// Returns domain.ErrNotFound if no such note exists for that owner.
	Update(ctx context.Context, note domain.Note) (domain.Note, error)

	// Delete removes a note and, through the cascade, its tag links.
	// Returns domain.ErrNotFound if no such note exists for that owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// CountByOwner returns how many notes ownerID has.
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// pgNoteRepo is the Postgres implementation of NoteRepo.
type pgNoteRepo struct {
	db db
}

// NewNoteRepo constructs a NoteRepo backed by the provided db connection.
func NewNoteRepo(db db) NoteRepo {
	return &pgNoteRepo{db: db}
}

const noteColumns = `n.id, n.owner_id, n.title, n.content, n.created_at, n.updated_at`

// noteOrder maps each sort key to a fixed ORDER BY clause. User input never
// reaches the SQL text directly.
var noteOrder = map[domain.NoteSort]string{
	domain.SortNewest: `n.created_at DESC, n.id DESC`,
	domain.SortOldest: `n.created_at ASC, n.id ASC`,
	domain.SortAZ:     `lower(n.title) ASC, n.created_at DESC, n.id DESC`,
	domain.SortZA:     `lower(n.title) DESC, n.created_at DESC, n.id DESC`,
}

// noteFilter matches a note when search is empty, or when title, content or
// any attached tag name contains it, ignoring case.
const noteFilter = `
	n.owner_id = @owner_id
	AND (
		@search = ''
		OR n.title   ILIKE '%' || @search || '%'
		OR n.content ILIKE '%' || @search || '%'
		OR EXISTS (
			SELECT 1
			FROM note_tags nt
			JOIN tags t ON t.id = nt.tag_id
			WHERE nt.note_id = n.id
			  AND t.name ILIKE '%' || @search || '%'
		)
	)`

func (r *pgNoteRepo) Create(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		INSERT INTO notes AS n (owner_id, title, content)
		VALUES (@owner_id, @title, @content)
		RETURNING ` + noteColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"owner_id": note.OwnerID,
		"title":    note.Title,
		"content":  note.Content,
	})
	created, err := scanNote(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w: unknown owner", domain.ErrValidation)
		}
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Create: %w", err)
	}
	return created, nil
}

func (r *pgNoteRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error) {
	const q = `
		SELECT ` + noteColumns + `
		FROM notes n
		WHERE n.id = @id AND n.owner_id = @owner_id`

	note, err := scanNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID}))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.GetByID: %w", err)
	}
	return note, nil
}

func (r *pgNoteRepo) List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error) {
	order, ok := noteOrder[q.Sort]
	if !ok {
		order = noteOrder[domain.SortNewest]
	}
	args := pgx.NamedArgs{
		"owner_id": ownerID,
		"search":   likePattern(q.Search),
		"limit":    q.Page.Limit,
		"offset":   q.Page.Offset(),
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM notes n WHERE `+noteFilter, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.NoteRepo.List: count: %w", err)
	}

	sql := `
		SELECT ` + noteColumns + `
		FROM notes n
		WHERE ` + noteFilter + `
		ORDER BY ` + order + `
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, sql, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.NoteRepo.List: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.NoteRepo.List: scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.NoteRepo.List: rows: %w", err)
	}
	return notes, total, nil
}

func (r *pgNoteRepo) Update(ctx context.Context, note domain.Note) (domain.Note, error) {
	const q = `
		UPDATE notes AS n
		SET title      = @title,
		    content    = @content,
		    updated_at = now()
		WHERE n.id = @id AND n.owner_id = @owner_id
		RETURNING ` + noteColumns

	updated, err := scanNote(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":       note.ID,
		"owner_id": note.OwnerID,
		"title":    note.Title,
		"content":  note.Content,
	}))
	if err != nil {
		return domain.Note{}, fmt.Errorf("repo.NoteRepo.Update: %w", err)
	}
	return updated, nil
}

func (r *pgNoteRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id = @id AND owner_id = @owner_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.NoteRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgNoteRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM notes WHERE owner_id = @owner_id`,
		pgx.NamedArgs{"owner_id": ownerID}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.NoteRepo.CountByOwner: %w", err)
	}
	return n, nil
}

// scanNote maps a single database row into a domain.Note.
func scanNote(s scanner) (domain.Note, error) {
	var (
		n       domain.Note
		id      pgtype.UUID
		ownerID pgtype.UUID
	)
	err := s.Scan(&id, &ownerID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	n.OwnerID = uuid.UUID(ownerID.Bytes)
	return n, nil
}
