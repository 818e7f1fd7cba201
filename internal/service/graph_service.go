package service

import (
	"context"
	"log/slog"
	"slices"

	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// GraphService manages follow relationships. Each user record carries both
// its followers and the users it follows; a toggle writes both sides as two
// independent updates.
type GraphService struct {
	users repository.UserRepository
}

func NewGraphService(users repository.UserRepository) *GraphService {
	return &GraphService{users: users}
}

// ToggleFollow makes actorID follow targetID, or stops following if it already
// does. It reports whether actorID follows targetID afterwards.
//
// The target's followers are written first. If mirroring the change onto the
// actor's following set fails, the relationship is left one-sided and the
// failure is logged and returned; nothing is rolled back.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID uint) (followed bool, err error) {
	span, ctx := observability.NewSpan(ctx, "GraphService.ToggleFollow",
		attribute.Int64("actor_id", int64(actorID)),
		attribute.Int64("target_id", int64(targetID)),
	)
	defer func() { span.Finish(err) }()

	if actorID == targetID {
		return false, models.NewValidationError("You cannot follow yourself")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return false, err
	}

	followed = !slices.Contains(target.Followers, actorID)
	if followed {
		err = s.users.AddFollower(ctx, targetID, actorID)
	} else {
		err = s.users.RemoveFollower(ctx, targetID, actorID)
	}
	if err != nil {
		return false, err
	}

	if followed {
		err = s.users.AddFollowing(ctx, actorID, targetID)
	} else {
		err = s.users.RemoveFollowing(ctx, actorID, targetID)
	}
	if err != nil {
		observability.FollowDualWriteFailures.Inc()
		middleware.Logger.WarnContext(ctx, "follow toggle left one-sided",
			slog.Uint64("actor_id", uint64(actorID)),
			slog.Uint64("target_id", uint64(targetID)),
			slog.Bool("followed", followed),
			slog.String("error", err.Error()),
		)
		return false, models.NewInternalError(err)
	}

	action := "unfollow"
	if followed {
		action = "follow"
	}
	observability.FollowsToggled.WithLabelValues(action).Inc()
	return followed, nil
}

// IsFollowing reports whether viewerID is among authorID's followers.
func (s *GraphService) IsFollowing(ctx context.Context, viewerID, authorID uint) (bool, error) {
	if viewerID == 0 {
		return false, nil
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return false, err
	}
	return s.Follows(author, viewerID), nil
}

// Follows reports whether viewerID is among author's followers. The anonymous
// viewer follows nobody.
func (s *GraphService) Follows(author *models.User, viewerID uint) bool {
	return viewerID != 0 && slices.Contains(author.Followers, viewerID)
}

// Profile returns the public view of a user including both follow sets.
func (s *GraphService) Profile(ctx context.Context, userID uint) (models.PublicUser, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.PublicUser{}, err
	}
	return models.NewPublicUser(u), nil
}

func (s *GraphService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, models.NewPublicUser(u))
	}
	return out, nil
}
