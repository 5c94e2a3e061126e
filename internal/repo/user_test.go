package repo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/notekeeper/internal/domain"
)

func TestUserRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	got, err := r.users.Create(ctx, "ada@example.com", "hashed")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "hashed", got.PasswordHash)
	assert.True(t, got.IsActive, "new users are active")
	assert.False(t, got.IsVerified, "new users are unverified")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmailIgnoringCase(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.users.Create(ctx, "grace@example.com", "h")
	require.NoError(t, err)

	_, err = r.users.Create(ctx, "Grace@Example.com", "h")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_GetByEmail_IgnoresCase(t *testing.T) {
	r := newTestRepos(t)
	created := mustCreateUser(t, r.users)

	got, err := r.users.GetByEmail(context.Background(), strings.ToUpper(created.Email))

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByID(t *testing.T) {
	r := newTestRepos(t)
	created := mustCreateUser(t, r.users)

	got, err := r.users.GetByID(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_MarkVerified(t *testing.T) {
	r := newTestRepos(t)
	created := mustCreateUser(t, r.users)

	got, err := r.users.MarkVerified(context.Background(), created.ID)

	require.NoError(t, err)
	assert.True(t, got.IsVerified)
}

func TestUserRepo_MarkVerified_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.MarkVerified(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
