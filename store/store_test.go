package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/notable-io/notable/auth"
	"github.com/notable-io/notable/store"
)

// newTestDB opens a private in-memory database and creates the schema.
func newTestDB(t *testing.T, name string) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	// cache=shared keeps the database alive across pooled connections, but
	// only while at least one stays open.
	sqldb.SetMaxIdleConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, store.Migrate(context.Background(), db))

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func registerUser(t *testing.T, repos store.RepositoryManager, username, password string) *store.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user, err := repos.Users().Register(context.Background(), &store.User{
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		Email:        username + "@example.com",
		PasswordHash: hash,
	})
	require.NoError(t, err)

	return user
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "users_repo")
	repos := store.NewRepositoryManager(db)
	require.NoError(t, repos.Validate())

	t.Run("register assigns id and timestamps", func(t *testing.T) {
		user := registerUser(t, repos, "john.doe", "123")

		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("find by username", func(t *testing.T) {
		found, err := repos.Users().FindByUsername(ctx, "john.doe")
		require.NoError(t, err)
		assert.Equal(t, "john.doe@example.com", found.Email)
	})

	t.Run("unknown username is record not found", func(t *testing.T) {
		_, err := repos.Users().FindByUsername(ctx, "ghost")
		assert.Error(t, err)
	})

	t.Run("usernames are unique", func(t *testing.T) {
		_, err := repos.Users().Register(ctx, &store.User{
			Username:     "john.doe",
			Email:        "dup@example.com",
			PasswordHash: "x",
		})
		assert.Error(t, err)
	})

	t.Run("list and count", func(t *testing.T) {
		registerUser(t, repos, "jane.smith", "123")

		users, err := repos.Users().ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)

		count, err := repos.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("delete by id", func(t *testing.T) {
		user := registerUser(t, repos, "to.delete", "123")

		deleted, err := repos.Users().DeleteByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repos.Users().DeleteByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestNotebooksRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "notebooks_repo")
	repos := store.NewRepositoryManager(db)

	registerUser(t, repos, "john.doe", "123")
	registerUser(t, repos, "jane.smith", "123")

	nb, err := repos.Notebooks().Add(ctx, &store.Notebook{
		Title:  "Work Notes",
		UserID: "john.doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, nb.ID)

	_, err = repos.Notebooks().Add(ctx, &store.Notebook{
		Title:  "Meeting Notes",
		UserID: "jane.smith",
	})
	require.NoError(t, err)

	t.Run("list by user only sees own notebooks", func(t *testing.T) {
		mine, err := repos.Notebooks().ListByUser(ctx, "john.doe")
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "Work Notes", mine[0].Title)
	})

	t.Run("list all", func(t *testing.T) {
		all, err := repos.Notebooks().ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("delete by id", func(t *testing.T) {
		deleted, err := repos.Notebooks().DeleteByID(ctx, nb.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestNotesRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "notes_repo")
	repos := store.NewRepositoryManager(db)

	registerUser(t, repos, "john.doe", "123")

	nb, err := repos.Notebooks().Add(ctx, &store.Notebook{
		Title:  "Work Notes",
		UserID: "john.doe",
	})
	require.NoError(t, err)

	other, err := repos.Notebooks().Add(ctx, &store.Notebook{
		Title:  "Hobby Projects",
		UserID: "john.doe",
	})
	require.NoError(t, err)

	for i, title := range []string{"Project X planning", "Team meeting notes", "Feedback round"} {
		target := nb
		if i == 2 {
			target = other
		}
		_, err := repos.Notes().Add(ctx, &store.Note{
			Title:      title,
			Content:    "content",
			UserID:     "john.doe",
			NotebookID: target.ID,
		})
		require.NoError(t, err)
	}

	t.Run("list by user", func(t *testing.T) {
		notes, err := repos.Notes().ListByUser(ctx, "john.doe")
		require.NoError(t, err)
		assert.Len(t, notes, 3)
	})

	t.Run("list by user and notebook", func(t *testing.T) {
		notes, err := repos.Notes().ListByUserAndNotebook(ctx, "john.doe", nb.ID)
		require.NoError(t, err)
		assert.Len(t, notes, 2)
	})

	t.Run("list by notebook", func(t *testing.T) {
		notes, err := repos.Notes().ListByNotebook(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Feedback round", notes[0].Title)
	})

	t.Run("search by title is case insensitive substring", func(t *testing.T) {
		notes, err := repos.Notes().SearchByTitle(ctx, "john.doe", "MEETING")
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Team meeting notes", notes[0].Title)
	})

	t.Run("search with no hits returns empty", func(t *testing.T) {
		notes, err := repos.Notes().SearchByTitle(ctx, "john.doe", "nothing-like-this")
		require.NoError(t, err)
		assert.Empty(t, notes)
	})
}

func TestUserProvider(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "user_provider")
	repos := store.NewRepositoryManager(db)

	user := registerUser(t, repos, "john.doe", "123")
	provider := store.NewUserProvider(repos.Users())

	t.Run("verify with valid credentials", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "john.doe", "123")
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "john.doe", identity.Username())
	})

	t.Run("wrong password and unknown user are the same error", func(t *testing.T) {
		_, badPass := provider.VerifyIdentity(ctx, "john.doe", "wrong")
		_, badUser := provider.VerifyIdentity(ctx, "ghost", "123")

		assert.ErrorIs(t, badPass, auth.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, badUser, auth.ErrMismatchedHashAndPassword)
	})

	t.Run("find identity by id", func(t *testing.T) {
		identity, err := provider.FindIdentityByID(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "john.doe", identity.Username())
	})

	t.Run("malformed id is identity not found", func(t *testing.T) {
		_, err := provider.FindIdentityByID(ctx, "u1")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})

	t.Run("deleted user is identity not found", func(t *testing.T) {
		ghost := registerUser(t, repos, "to.delete", "123")

		deleted, err := repos.Users().DeleteByID(ctx, ghost.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		_, err = provider.FindIdentityByID(ctx, ghost.ID.String())
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "seed")
	repos := store.NewRepositoryManager(db)

	require.NoError(t, store.Seed(ctx, repos))

	t.Run("loads three users, nine notebooks, twenty seven notes", func(t *testing.T) {
		count, err := repos.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		notebooks, err := repos.Notebooks().ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, notebooks, 9)

		notes, err := repos.Notes().ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, notes, 27)
	})

	t.Run("demo credentials verify", func(t *testing.T) {
		provider := store.NewUserProvider(repos.Users())

		for _, username := range []string{"admin", "john.doe", "jane.smith"} {
			identity, err := provider.VerifyIdentity(ctx, username, store.SeedPassword)
			require.NoError(t, err)
			assert.Equal(t, username, identity.Username())
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, store.Seed(ctx, repos))

		count, err := repos.Users().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}
