package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(c)
	t.Cleanup(func() {
		SetClient(nil)
		_ = c.Close()
	})
	return mr, c
}

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func TestAside_MissThenHit(t *testing.T) {
	mr, _ := setupRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			calls++
			*dest = cachedUser{ID: 1, Username: "alice"}
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "alice", first.Username)
	assert.True(t, mr.Exists("user:1"))

	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, 1, calls)

	InvalidateUser(ctx, 1)
	assert.False(t, mr.Exists("user:1"))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr, _ := setupRedis(t)

	var u cachedUser
	err := Aside(context.Background(), UserKey(2), &u, UserTTL, func() error {
		return errors.New("not found")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists("user:2"))
}

func TestAside_WithoutClient(t *testing.T) {
	SetClient(nil)

	var u cachedUser
	err := Aside(context.Background(), UserKey(3), &u, UserTTL, func() error {
		u.Username = "carol"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "carol", u.Username)
}

func TestRevocationList(t *testing.T) {
	mr, c := setupRedis(t)
	ctx := context.Background()
	list := NewRevocationList(c)

	revoked, err := list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "abc", time.Minute))
	revoked, err = list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "expired", 0))
	assert.False(t, mr.Exists("blacklist:expired"))
}

func TestRevocationList_NilClient(t *testing.T) {
	list := NewRevocationList(nil)
	require.NoError(t, list.Revoke(context.Background(), "abc", time.Minute))
	revoked, err := list.IsRevoked(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInitRedis_Unreachable(t *testing.T) {
	InitRedis("redis://127.0.0.1:1")
	assert.Nil(t, GetClient())

	InitRedis("")
	assert.Nil(t, GetClient())
}
