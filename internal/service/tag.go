package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/repo"
)

// TagService implements business logic for Tag operations.
// Tag names are trimmed before they are stored or compared; uniqueness
// ignoring case is enforced by the database.
type TagService struct {
	tags repo.TagRepo
}

// NewTagService constructs a TagService backed by the provided TagRepo.
func NewTagService(tags repo.TagRepo) *TagService {
	return &TagService{tags: tags}
}

type tagInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

// Create validates and persists a new tag.
func (s *TagService) Create(ctx context.Context, name string) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	if err := validateStruct(tagInput{Name: name}); err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}
	t, err := s.tags.Create(ctx, name)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Create: %w", err)
	}
	return t, nil
}

// Get returns a tag by ID.
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (domain.Tag, error) {
	t, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Get: %w", err)
	}
	return t, nil
}

// List returns one page of tags whose name starts with prefix, plus the total.
func (s *TagService) List(ctx context.Context, prefix string, p domain.PaginationParams) ([]domain.Tag, int64, error) {
	tags, total, err := s.tags.List(ctx, strings.TrimSpace(prefix), p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TagService.List: %w", err)
	}
	return tags, total, nil
}

// Rename validates and applies a new name to an existing tag.
func (s *TagService) Rename(ctx context.Context, id uuid.UUID, name string) (domain.Tag, error) {
	name = strings.TrimSpace(name)
	if err := validateStruct(tagInput{Name: name}); err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Rename: %w", err)
	}
	t, err := s.tags.Rename(ctx, id, name)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.TagService.Rename: %w", err)
	}
	return t, nil
}

// Delete removes a tag that no note references.
// Returns domain.ErrTagInUse otherwise.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	uses, err := s.tags.CountNotes(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TagService.Delete: %w", err)
	}
	if uses > 0 {
		return fmt.Errorf("service.TagService.Delete: %w", domain.ErrTagInUse)
	}
	if err := s.tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TagService.Delete: %w", err)
	}
	return nil
}
