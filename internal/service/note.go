package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/repo"
)

// NoteService implements business logic for Note operations, including the
// note's tag set.
type NoteService struct {
	tx    TxRunner
	notes repo.NoteRepo
	tags  repo.TagRepo
}

// NewNoteService constructs a NoteService. notes and tags must be built over
// the same connection tx runs transactions on.
func NewNoteService(tx TxRunner, notes repo.NoteRepo, tags repo.TagRepo) *NoteService {
	return &NoteService{tx: tx, notes: notes, tags: tags}
}

type noteInput struct {
	Title string `json:"title" validate:"required,max=200"`
}

// Create validates and persists a new note owned by note.OwnerID together
// with its tags. Duplicate tag IDs are ignored; an unknown tag ID fails the
// whole operation with domain.ErrValidation.
func (s *NoteService) Create(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error) {
	note.Title = strings.TrimSpace(note.Title)
	if err := validateStruct(noteInput{Title: note.Title}); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}

	var created domain.Note
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.notes.Create(ctx, note)
		if err != nil {
			return err
		}
		created.Tags, err = s.attachTags(ctx, created.ID, tagIDs)
		return err
	})
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Create: %w", err)
	}
	return created, nil
}

// Get returns a single note with its tags.
func (s *NoteService) Get(ctx context.Context, ownerID, id uuid.UUID) (domain.Note, error) {
	note, err := s.notes.GetByID(ctx, ownerID, id)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Get: %w", err)
	}
	note.Tags, err = s.tags.ListByNote(ctx, note.ID)
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Get: %w", err)
	}
	return note, nil
}

// List returns one page of the owner's notes with their tags, plus the total
// number of notes matching q. An empty sort means newest first.
func (s *NoteService) List(ctx context.Context, ownerID uuid.UUID, q domain.NoteQuery) ([]domain.Note, int64, error) {
	if q.Sort == "" {
		q.Sort = domain.SortNewest
	}
	if !q.Sort.Valid() {
		return nil, 0, fmt.Errorf("service.NoteService.List: %w: sort must be one of newest, oldest, az, za",
			domain.ErrValidation)
	}
	q.Search = strings.TrimSpace(q.Search)

	notes, total, err := s.notes.List(ctx, ownerID, q)
	if err != nil {
		return nil, 0, fmt.Errorf("service.NoteService.List: %w", err)
	}
	if err := s.hydrateTags(ctx, notes); err != nil {
		return nil, 0, fmt.Errorf("service.NoteService.List: %w", err)
	}
	return notes, total, nil
}

// Update replaces the note's title and content. A nil tagIDs leaves the tag
// set untouched; a non-nil slice, even an empty one, replaces it.
func (s *NoteService) Update(ctx context.Context, note domain.Note, tagIDs []uuid.UUID) (domain.Note, error) {
	note.Title = strings.TrimSpace(note.Title)
	if err := validateStruct(noteInput{Title: note.Title}); err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}

	var updated domain.Note
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.notes.Update(ctx, note)
		if err != nil {
			return err
		}
		if tagIDs == nil {
			updated.Tags, err = s.tags.ListByNote(ctx, updated.ID)
			return err
		}
		if err := s.tags.DetachAllFromNote(ctx, updated.ID); err != nil {
			return err
		}
		updated.Tags, err = s.attachTags(ctx, updated.ID, tagIDs)
		return err
	})
	if err != nil {
		return domain.Note{}, fmt.Errorf("service.NoteService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a note owned by ownerID.
func (s *NoteService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.notes.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("service.NoteService.Delete: %w", err)
	}
	return nil
}

// attachTags links each distinct tag to the note and returns the resulting
// tag set ordered by name.
func (s *NoteService) attachTags(ctx context.Context, noteID uuid.UUID, tagIDs []uuid.UUID) ([]domain.Tag, error) {
	ids := dedupeIDs(tagIDs)
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	for _, id := range ids {
		if err := s.tags.AttachToNote(ctx, noteID, id); err != nil {
			return nil, err
		}
	}
	return s.tags.ListByNote(ctx, noteID)
}

// hydrateTags fills in Tags for every note with a single query.
func (s *NoteService) hydrateTags(ctx context.Context, notes []domain.Note) error {
	if len(notes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	byNote, err := s.tags.ListByNotes(ctx, ids)
	if err != nil {
		return err
	}
	for i := range notes {
		notes[i].Tags = byNote[notes[i].ID]
		if notes[i].Tags == nil {
			notes[i].Tags = []domain.Tag{}
		}
	}
	return nil
}

// dedupeIDs drops repeated IDs, keeping first-seen order.
func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
