package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writers-api/internal/domain"
	"writers-api/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	n, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return db
}

func createUser(t *testing.T, repo repository.UserRepository, name, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, Bio: "a bio of some length", PasswordHash: "hash"}
	_, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestMigrateIsRepeatable(t *testing.T) {
	db := openTestDB(t)
	n, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	u := createUser(t, repo, "Alice", "a@x.com")
	assert.NotZero(t, u.ID)

	byEmail, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "Alice", byEmail.Name)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.Nil(t, byEmail.EmailVerifiedAt)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	createUser(t, repo, "Alice", "a@x.com")

	_, err := repo.Create(ctx, &domain.User{Name: "Other", Email: "a@x.com", Bio: "another bio", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	exists, err := repo.EmailExists(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, "b@x.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_EmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	u := createUser(t, repo, "Alice", "a@x.com")

	_, err := repo.Create(ctx, &domain.User{Name: "Other", Email: "A@X.COM", Bio: "another bio", PasswordHash: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	exists, err := repo.EmailExists(ctx, "A@x.Com")
	require.NoError(t, err)
	assert.True(t, exists)

	byEmail, err := repo.GetByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "a@x.com", byEmail.Email)
}

func TestOpenEnablesForeignKeysOnEveryConnection(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	db.SetMaxOpenConns(2)

	conns := make([]*sql.Conn, 2)
	for i := range conns {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		conns[i] = conn
	}

	for _, conn := range conns {
		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
		assert.Equal(t, 1, enabled)
	}
}

func TestUserRepository_MarkEmailVerifiedOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	u := createUser(t, repo, "Alice", "a@x.com")

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	changed, err := repo.MarkEmailVerified(ctx, u.ID, first)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkEmailVerified(ctx, u.ID, first.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EmailVerifiedAt)
	assert.True(t, got.EmailVerifiedAt.Equal(first))
}

func TestUserRepository_ListNames(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	writers, err := repo.ListNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, writers)

	createUser(t, repo, "Alice", "a@x.com")
	createUser(t, repo, "Bob", "b@x.com")

	writers, err = repo.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Writer{{Name: "Alice"}, {Name: "Bob"}}, writers)
}

func TestArticleRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepository(db)
	articles := NewArticleRepository(db)

	alice := createUser(t, users, "Alice", "a@x.com")
	bob := createUser(t, users, "Bob", "b@x.com")

	for _, a := range []*domain.Article{
		{UserID: alice.ID, CreatedBy: "Alice", Body: "first post"},
		{UserID: bob.ID, CreatedBy: "Bob", Body: "bob writes"},
		{UserID: alice.ID, CreatedBy: "Alice", Body: "second post"},
	} {
		_, err := articles.Create(ctx, a)
		require.NoError(t, err)
	}

	all, err := articles.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "second post", all[0].Body)
	assert.Equal(t, "first post", all[2].Body)

	mine, err := articles.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Greater(t, mine[0].ID, mine[1].ID)

	n, err := articles.UpdateBody(ctx, mine[0].ID, "edited body")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = articles.UpdateBody(ctx, 12345, "edited body")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = articles.Delete(ctx, mine[1].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = articles.Delete(ctx, 12345)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	mine, err = articles.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "edited body", mine[0].Body)
	assert.Equal(t, "Alice", mine[0].CreatedBy)
}

func TestArticleRepository_RequiresExistingUser(t *testing.T) {
	articles := NewArticleRepository(openTestDB(t))
	_, err := articles.Create(context.Background(), &domain.Article{UserID: 42, CreatedBy: "ghost", Body: "orphan article"})
	assert.Error(t, err)
}
