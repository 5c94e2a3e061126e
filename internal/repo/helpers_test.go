package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/notekeeper/internal/domain"
	"github.com/pkordes/notekeeper/internal/repo"
	"github.com/pkordes/notekeeper/testutil"
)

// repos bundles every repository over a single rolled-back transaction so a
// test can build users, notes and tags together.
type repos struct {
	users repo.UserRepo
	notes repo.NoteRepo
	tags  repo.TagRepo
}

func newTestRepos(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repos{
		users: repo.NewUserRepo(tx),
		notes: repo.NewNoteRepo(tx),
		tags:  repo.NewTagRepo(tx),
	}
}

// mustCreateUser inserts a user with a unique email.
func mustCreateUser(t *testing.T, r repo.UserRepo) domain.User {
	t.Helper()
	u, err := r.Create(context.Background(), fmt.Sprintf("%s@example.com", uuid.NewString()), "hash")
	require.NoError(t, err)
	return u
}

// mustCreateNote inserts a note for owner.
func mustCreateNote(t *testing.T, r repo.NoteRepo, owner uuid.UUID, title, content string) domain.Note {
	t.Helper()
	n, err := r.Create(context.Background(), domain.Note{OwnerID: owner, Title: title, Content: content})
	require.NoError(t, err)
	return n
}

// uniqueName returns a tag name that cannot collide with rows committed by
// other test runs against the same database.
func uniqueName(base string) string {
	return base + "-" + uuid.NewString()[:8]
}
