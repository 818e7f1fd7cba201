package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"

	"socialhub/internal/bootstrap"
	"socialhub/internal/cache"
	"socialhub/internal/config"
	"socialhub/internal/featureflags"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRuntimeApp builds the app over the repositories bootstrap opens for cfg.
func newRuntimeApp(t *testing.T, cfg *config.Config) (*fiber.App, *bootstrap.Runtime) {
	t.Helper()
	rt, err := bootstrap.InitRuntime(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, rt.Close())
		cache.SetClient(nil)
	})
	return NewServerWithDeps(cfg, rt.Users, rt.Posts, rt.Redis).NewApp(), rt
}

func TestAPI_AcrossStores(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(t *testing.T) *config.Config
	}{
		{
			name: "memory",
			cfg: func(*testing.T) *config.Config {
				return testConfig(featureflags.PostEdit + "=on")
			},
		},
		{
			name: "sqlite with redis",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(featureflags.PostEdit + "=on")
				cfg.StoreBackend = config.StoreSQLite
				cfg.SQLitePath = filepath.Join(t.TempDir(), "api.db")
				cfg.RedisURL = miniredis.RunT(t).Addr()
				return cfg
			},
		},
		{
			name: "badger",
			cfg: func(t *testing.T) *config.Config {
				cfg := testConfig(featureflags.PostEdit + "=on")
				cfg.StoreBackend = config.StoreBadger
				cfg.BadgerPath = t.TempDir()
				return cfg
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, rt := newRuntimeApp(t, tt.cfg(t))
			aliceToken, aliceID := signup(t, app, "alice", "pw")
			bobToken, bobID := signup(t, app, "bob", "pw")

			resp := call(t, app, http.MethodPost, "/api/posts", aliceToken, map[string]string{"title": "T", "description": "D"})
			require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
			postPath := fmt.Sprintf("/api/posts/%v", resp.object(t)["id"])

			resp = call(t, app, http.MethodPost, postPath+"/like", bobToken, nil)
			require.Equal(t, http.StatusOK, resp.status, string(resp.body))
			assert.Equal(t, []any{float64(bobID)}, resp.object(t)["likes"])

			resp = call(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), bobToken, nil)
			require.Equal(t, http.StatusOK, resp.status, string(resp.body))

			resp = call(t, app, http.MethodGet, "/api/posts", bobToken, nil)
			require.Equal(t, http.StatusOK, resp.status)
			feed := resp.array(t)
			require.Len(t, feed, 1)
			assert.Equal(t, true, feed[0]["isFollowingAuthor"])
			assert.Equal(t, float64(1), feed[0]["likesCount"])

			resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), "", nil)
			assert.Equal(t, []any{float64(aliceID)}, resp.object(t)["following"])

			resp = call(t, app, http.MethodPost, "/api/comments", bobToken, map[string]any{"postId": feed[0]["id"], "body": "nice"})
			require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
			resp = call(t, app, http.MethodGet, postPath+"/comments", "", nil)
			require.Equal(t, http.StatusOK, resp.status)
			assert.Len(t, resp.array(t), 1)

			resp = call(t, app, http.MethodPut, postPath, aliceToken, map[string]string{"title": "edited"})
			require.Equal(t, http.StatusOK, resp.status, string(resp.body))
			resp = call(t, app, http.MethodPut, postPath, bobToken, map[string]string{"title": "hijack"})
			assert.Equal(t, http.StatusForbidden, resp.status)

			resp = call(t, app, http.MethodGet, postPath, "", nil)
			require.Equal(t, http.StatusOK, resp.status)
			assert.Equal(t, "edited", resp.object(t)["title"])

			if rt.Redis != nil {
				resp = call(t, app, http.MethodPost, "/api/auth/logout", bobToken, nil)
				require.Equal(t, http.StatusOK, resp.status)
				resp = call(t, app, http.MethodPost, postPath+"/like", bobToken, nil)
				assert.Equal(t, http.StatusUnauthorized, resp.status)
			}
		})
	}
}
