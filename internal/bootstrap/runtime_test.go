package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"socialhub/internal/cache"
	"socialhub/internal/config"
	"socialhub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntime_Backends(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func(dir string) *config.Config
		check func(t *testing.T, rt *Runtime)
	}{
		{
			name: "memory",
			cfg: func(string) *config.Config {
				return &config.Config{StoreBackend: config.StoreMemory}
			},
			check: func(t *testing.T, rt *Runtime) {
				assert.Nil(t, rt.DB)
				assert.Nil(t, rt.Badger)
			},
		},
		{
			name: "sqlite",
			cfg: func(dir string) *config.Config {
				return &config.Config{Env: "test", StoreBackend: config.StoreSQLite, SQLitePath: filepath.Join(dir, "app.db")}
			},
			check: func(t *testing.T, rt *Runtime) {
				assert.NotNil(t, rt.DB)
			},
		},
		{
			name: "sqlite production profile",
			cfg: func(dir string) *config.Config {
				return &config.Config{Env: "production", StoreBackend: config.StoreSQLite, SQLitePath: filepath.Join(dir, "prod.db")}
			},
			check: func(t *testing.T, rt *Runtime) {
				require.NotNil(t, rt.DB)
				assert.True(t, rt.DB.Migrator().HasTable("migration_logs"))
			},
		},
		{
			name: "badger",
			cfg: func(dir string) *config.Config {
				return &config.Config{StoreBackend: config.StoreBadger, BadgerPath: dir}
			},
			check: func(t *testing.T, rt *Runtime) {
				assert.NotNil(t, rt.Badger)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := InitRuntime(tt.cfg(t.TempDir()))
			require.NoError(t, err)
			defer func() { assert.NoError(t, rt.Close()) }()

			tt.check(t, rt)
			assert.Nil(t, rt.Redis)

			u := &models.User{Username: "alice", Password: "hash"}
			require.NoError(t, rt.Users.Create(context.Background(), u))
			got, err := rt.Users.GetByID(context.Background(), u.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", got.Username)

			post := &models.Post{AuthorID: u.ID, Title: "T", Description: "D"}
			require.NoError(t, rt.Posts.Create(context.Background(), post))
			require.NoError(t, rt.Posts.AddComment(context.Background(), &models.Comment{PostID: post.ID, UserID: u.ID, UserName: "alice", Body: "hi"}))
			require.NoError(t, rt.Users.AddFollower(context.Background(), u.ID, u.ID+1))
		})
	}
}

func TestInitRuntime_UnknownBackend(t *testing.T) {
	_, err := InitRuntime(&config.Config{StoreBackend: "mongo"})
	assert.Error(t, err)
}

func TestInitRuntime_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(func() { cache.SetClient(nil) })

	rt, err := InitRuntime(&config.Config{StoreBackend: config.StoreMemory, RedisURL: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, rt.Redis)
	assert.NoError(t, rt.Close())
}
