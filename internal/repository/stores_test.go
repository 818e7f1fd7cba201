package repository

import (
	"context"
	"testing"
	"time"

	"socialhub/internal/config"
	"socialhub/internal/database"
	"socialhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storePair struct {
	users UserRepository
	posts PostRepository
}

// stores opens a fresh instance of every backend that runs without external services.
func stores(t *testing.T) map[string]func(t *testing.T) storePair {
	t.Helper()
	return map[string]func(t *testing.T) storePair{
		"memory": func(t *testing.T) storePair {
			return storePair{users: NewMemoryUserRepository(), posts: NewMemoryPostRepository()}
		},
		"sqlite": func(t *testing.T) storePair {
			db, err := database.Connect(&config.Config{
				Env:          "test",
				StoreBackend: config.StoreSQLite,
				SQLitePath:   ":memory:",
			})
			require.NoError(t, err)
			sqlDB, err := db.DB()
			require.NoError(t, err)
			t.Cleanup(func() { _ = sqlDB.Close() })
			return storePair{users: NewUserRepository(db), posts: NewPostRepository(db)}
		},
		"badger": func(t *testing.T) storePair {
			db, err := database.OpenBadger(t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			return storePair{users: NewBadgerUserRepository(db), posts: NewBadgerPostRepository(db)}
		},
	}
}

func mustCreateUser(t *testing.T, repo UserRepository, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Password: "hash-" + name}
	require.NoError(t, repo.Create(context.Background(), u))
	require.NotZero(t, u.ID)
	return u
}

func TestUserStores(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			alice := mustCreateUser(t, s.users, "alice")
			bob := mustCreateUser(t, s.users, "bob")
			assert.Greater(t, bob.ID, alice.ID)

			err := s.users.Create(ctx, &models.User{Username: "alice", Password: "x"})
			assert.True(t, models.IsCode(err, models.CodeConflict), "duplicate username: %v", err)

			// usernames are case-sensitive
			mustCreateUser(t, s.users, "Alice")

			found, err := s.users.GetByUsername(ctx, "alice")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, alice.ID, found.ID)
			assert.Equal(t, "hash-alice", found.Password)

			missing, err := s.users.GetByUsername(ctx, "carol")
			assert.NoError(t, err)
			assert.Nil(t, missing)

			_, err = s.users.GetByID(ctx, 999)
			assert.True(t, models.IsCode(err, models.CodeNotFound))

			require.NoError(t, s.users.AddFollower(ctx, bob.ID, alice.ID))
			require.NoError(t, s.users.AddFollower(ctx, bob.ID, alice.ID))
			require.NoError(t, s.users.AddFollowing(ctx, alice.ID, bob.ID))

			got, err := s.users.GetByID(ctx, bob.ID)
			require.NoError(t, err)
			assert.Equal(t, []uint{alice.ID}, got.Followers)
			assert.Empty(t, got.Following)

			got, err = s.users.GetByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, []uint{bob.ID}, got.Following)

			require.NoError(t, s.users.RemoveFollower(ctx, bob.ID, alice.ID))
			require.NoError(t, s.users.RemoveFollowing(ctx, alice.ID, bob.ID))

			got, err = s.users.GetByID(ctx, bob.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Followers)
			got, err = s.users.GetByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Following)

			all, err := s.users.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, "alice", all[0].Username)
			assert.Equal(t, "bob", all[1].Username)
			assert.Equal(t, "Alice", all[2].Username)
		})
	}
}

func TestPostStores(t *testing.T) {
	for name, open := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			older := &models.Post{AuthorID: 1, Title: "old", Description: "d", CreatedAt: base}
			newer := &models.Post{AuthorID: 1, Title: "new", Description: "d", CreatedAt: base.Add(time.Hour)}
			twin := &models.Post{AuthorID: 2, Title: "twin", Description: "d", CreatedAt: base}
			for _, p := range []*models.Post{older, newer, twin} {
				require.NoError(t, s.posts.Create(ctx, p))
			}
			assert.Empty(t, older.Likes)
			assert.Empty(t, older.Comments)

			list, err := s.posts.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, []uint{newer.ID, twin.ID, older.ID}, []uint{list[0].ID, list[1].ID, list[2].ID})
			for _, p := range list {
				assert.NotNil(t, p.Likes)
				assert.NotNil(t, p.Comments)
			}

			require.NoError(t, s.posts.Like(ctx, older.ID, 7))
			require.NoError(t, s.posts.Like(ctx, older.ID, 7))
			require.NoError(t, s.posts.Like(ctx, older.ID, 8))
			got, err := s.posts.GetByID(ctx, older.ID)
			require.NoError(t, err)
			assert.ElementsMatch(t, []uint{7, 8}, got.Likes)

			require.NoError(t, s.posts.Unlike(ctx, older.ID, 7))
			got, err = s.posts.GetByID(ctx, older.ID)
			require.NoError(t, err)
			assert.Equal(t, []uint{8}, got.Likes)

			for _, body := range []string{"first", "second"} {
				c := &models.Comment{PostID: older.ID, UserID: 8, UserName: "bob", Body: body}
				require.NoError(t, s.posts.AddComment(ctx, c))
				assert.NotZero(t, c.ID)
			}
			got, err = s.posts.GetByID(ctx, older.ID)
			require.NoError(t, err)
			require.Len(t, got.Comments, 2)
			assert.Equal(t, "first", got.Comments[0].Body)
			assert.Equal(t, "second", got.Comments[1].Body)
			assert.Equal(t, "bob", got.Comments[1].UserName)

			err = s.posts.AddComment(ctx, &models.Comment{PostID: 999, UserID: 8, Body: "x"})
			assert.True(t, models.IsCode(err, models.CodeNotFound))

			got.Title = "edited"
			got.Image = ""
			require.NoError(t, s.posts.Update(ctx, got))
			got, err = s.posts.GetByID(ctx, older.ID)
			require.NoError(t, err)
			assert.Equal(t, "edited", got.Title)
			assert.Equal(t, "d", got.Description)
			assert.Len(t, got.Comments, 2)

			err = s.posts.Update(ctx, &models.Post{ID: 999, Title: "t", Description: "d"})
			assert.True(t, models.IsCode(err, models.CodeNotFound))

			_, err = s.posts.GetByID(ctx, 999)
			assert.True(t, models.IsCode(err, models.CodeNotFound))
		})
	}
}

func TestMemoryStores_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	posts := NewMemoryPostRepository()
	p := &models.Post{AuthorID: 1, Title: "t", Description: "d"}
	require.NoError(t, posts.Create(ctx, p))

	got, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Likes = append(got.Likes, 42)

	again, err := posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Likes)
}
