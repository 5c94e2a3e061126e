package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/repo"
)

// UserService serves the authenticated user's own account data.
type UserService struct {
	users repo.UserRepo
	notes repo.NoteRepo
	tags  repo.TagRepo
}

// NewUserService constructs a UserService.
func NewUserService(users repo.UserRepo, notes repo.NoteRepo, tags repo.TagRepo) *UserService {
	return &UserService{users: users, notes: notes, tags: tags}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Get: %w", err)
	}
	return u, nil
}

// Stats counts the user's notes and the tags available to them.
// Tags are global, so TagsCount is the same for every user.
func (s *UserService) Stats(ctx context.Context, id uuid.UUID) (domain.Stats, error) {
	notes, err := s.notes.CountByOwner(ctx, id)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.UserService.Stats: %w", err)
	}
	tags, err := s.tags.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.UserService.Stats: %w", err)
	}
	return domain.Stats{NotesCount: notes, TagsCount: tags}, nil
}
