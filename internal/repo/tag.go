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

// TagRepo defines the persistence operations for Tags and the note_tags join table.
type TagRepo interface {
	// Create inserts a tag. Returns domain.ErrConflict if a tag with the same
	// name, ignoring case, already exists.
	Create(ctx context.Context, name string) (domain.Tag, error)

	// GetByID retrieves a tag by primary key.
	// Returns domain.ErrNotFound if no such tag exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error)

	// List returns one page of tags ordered by name, plus the total count.
	// When prefix is non-empty only tags whose name starts with it (ignoring
	// case) are returned.
	List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error)

	// Rename changes a tag's name. Returns domain.ErrNotFound if the tag does
	// not exist and domain.ErrConflict if the new name is taken.
	Rename(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error)

	// Delete removes a tag. Returns domain.ErrNotFound if the tag does not
	// exist and domain.ErrTagInUse if any note still references it.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of tags.
	Count(ctx context.Context) (int64, error)

	// CountNotes returns how many notes reference the tag.
	CountNotes(ctx context.Context, id uuid.UUID) (int64, error)

	// AttachToNote links a tag to a note. Linking twice is a no-op.
	// Returns domain.ErrValidation if either id does not exist.
	AttachToNote(ctx context.Context, noteID, tagID uuid.UUID) error

	// DetachAllFromNote removes every tag link of a note.
	DetachAllFromNote(ctx context.Context, noteID uuid.UUID) error

	// ListByNote returns the tags attached to a note, ordered by name.
	ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error)

	// ListByNotes returns the tags of every given note keyed by note id.
	// Notes without tags are absent from the map.
	ListByNotes(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error)
}

// pgTagRepo is the Postgres implementation of TagRepo.
type pgTagRepo struct {
	db db
}

// NewTagRepo constructs a TagRepo backed by the provided db connection.
func NewTagRepo(db db) TagRepo {
	return &pgTagRepo{db: db}
}

func (r *pgTagRepo) Create(ctx context.Context, name string) (domain.Tag, error) {
	const q = `
		INSERT INTO tags (name)
		VALUES (@name)
		RETURNING id, name, created_at`

	tag, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"name": name}))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Tag{}, fmt.Errorf("repo.TagRepo.Create: %w: tag %q already exists", domain.ErrConflict, name)
		}
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Create: %w", err)
	}
	return tag, nil
}

func (r *pgTagRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	const q = `SELECT id, name, created_at FROM tags WHERE id = @id`

	tag, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.GetByID: %w", err)
	}
	return tag, nil
}

func (r *pgTagRepo) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	args := pgx.NamedArgs{
		"prefix": likePattern(prefix),
		"limit":  p.Limit,
		"offset": p.Offset(),
	}
	const where = `@prefix = '' OR name ILIKE @prefix || '%'`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tags WHERE `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TagRepo.List: count: %w", err)
	}

	q := `
		SELECT id, name, created_at
		FROM tags
		WHERE ` + where + `
		ORDER BY lower(name), id
		LIMIT @limit OFFSET @offset`

	tags, err := r.queryTags(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TagRepo.List: %w", err)
	}
	return tags, total, nil
}

func (r *pgTagRepo) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error) {
	const q = `
		UPDATE tags
		SET name = @name
		WHERE id = @id
		RETURNING id, name, created_at`

	tag, err := scanTag(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "name": name}))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Tag{}, fmt.Errorf("repo.TagRepo.Rename: %w: tag %q already exists", domain.ErrConflict, name)
		}
		return domain.Tag{}, fmt.Errorf("repo.TagRepo.Rename: %w", err)
	}
	return tag, nil
}

func (r *pgTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM tags WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		// note_tags.tag_id is ON DELETE RESTRICT.
		if isForeignKeyViolation(err) {
			return fmt.Errorf("repo.TagRepo.Delete: %w", domain.ErrTagInUse)
		}
		return fmt.Errorf("repo.TagRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TagRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTagRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM tags`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.TagRepo.Count: %w", err)
	}
	return n, nil
}

func (r *pgTagRepo) CountNotes(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM note_tags WHERE tag_id = @id`,
		pgx.NamedArgs{"id": id}).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.TagRepo.CountNotes: %w", err)
	}
	return n, nil
}

func (r *pgTagRepo) AttachToNote(ctx context.Context, noteID, tagID uuid.UUID) error {
	const q = `
		INSERT INTO note_tags (note_id, tag_id)
		VALUES (@note_id, @tag_id)
		ON CONFLICT DO NOTHING`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"note_id": noteID, "tag_id": tagID})
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("repo.TagRepo.AttachToNote: %w: unknown tag id %s", domain.ErrValidation, tagID)
		}
		return fmt.Errorf("repo.TagRepo.AttachToNote: %w", err)
	}
	return nil
}

func (r *pgTagRepo) DetachAllFromNote(ctx context.Context, noteID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM note_tags WHERE note_id = @note_id`,
		pgx.NamedArgs{"note_id": noteID})
	if err != nil {
		return fmt.Errorf("repo.TagRepo.DetachAllFromNote: %w", err)
	}
	return nil
}

func (r *pgTagRepo) ListByNote(ctx context.Context, noteID uuid.UUID) ([]domain.Tag, error) {
	const q = `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN note_tags nt ON nt.tag_id = t.id
		WHERE nt.note_id = @note_id
		ORDER BY lower(t.name), t.id`

	tags, err := r.queryTags(ctx, q, pgx.NamedArgs{"note_id": noteID})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByNote: %w", err)
	}
	return tags, nil
}

func (r *pgTagRepo) ListByNotes(ctx context.Context, noteIDs []uuid.UUID) (map[uuid.UUID][]domain.Tag, error) {
	out := make(map[uuid.UUID][]domain.Tag)
	if len(noteIDs) == 0 {
		return out, nil
	}

	const q = `
		SELECT nt.note_id, t.id, t.name, t.created_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = ANY(@note_ids::uuid[])
		ORDER BY nt.note_id, lower(t.name), t.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"note_ids": noteIDs})
	if err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByNotes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID, tagID pgtype.UUID
			t             domain.Tag
		)
		if err := rows.Scan(&noteID, &tagID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("repo.TagRepo.ListByNotes: scan: %w", err)
		}
		t.ID = uuid.UUID(tagID.Bytes)
		key := uuid.UUID(noteID.Bytes)
		out[key] = append(out[key], t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TagRepo.ListByNotes: rows: %w", err)
	}
	return out, nil
}

func (r *pgTagRepo) queryTags(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return tags, nil
}

// scanTag maps a single database row into a domain.Tag.
func scanTag(s scanner) (domain.Tag, error) {
	var (
		t  domain.Tag
		id pgtype.UUID
	)
	if err := s.Scan(&id, &t.Name, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tag{}, domain.ErrNotFound
		}
		return domain.Tag{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	return t, nil
}
