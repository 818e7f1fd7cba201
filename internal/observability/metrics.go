package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// LikesToggled counts like toggles by resulting action (like or unlike).
	LikesToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_likes_toggled_total",
		Help: "Total number of like toggles by resulting action",
	}, []string{"action"})

	// FollowsToggled counts follow toggles by resulting action (follow or unfollow).
	FollowsToggled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialhub_follows_toggled_total",
		Help: "Total number of follow toggles by resulting action",
	}, []string{"action"})

	// FollowDualWriteFailures counts toggles that updated the target's
	// followers but failed to mirror the change onto the actor's following.
	FollowDualWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialhub_follow_dual_write_failures_total",
		Help: "Follow toggles left one-sided by a failed second write",
	})

	// TokensRevoked counts successful logouts that recorded a revocation.
	TokensRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "socialhub_tokens_revoked_total",
		Help: "Total number of revoked session tokens",
	})
)
