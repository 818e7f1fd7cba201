package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialhub/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const (
	UserKeyPrefix      = "user:%d"
	RevokedTokenPrefix = "blacklist:%s"
)

const (
	UserTTL = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenPrefix, jti)
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest)
// and stores the result with ttl. Cache failures never fail the read; only
// fetch errors are returned.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			return nil
		}
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	if err := fetch(); err != nil {
		return err
	}

	if b, err := json.Marshal(dest); err == nil {
		if setErr := client.Set(ctx, key, b, ttl).Err(); setErr != nil {
			middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", setErr.Error()))
		}
	}
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
