package service

import (
	"context"
	"testing"

	"socialhub/internal/models"
	"socialhub/internal/repository"

	"github.com/stretchr/testify/require"
)

// userRepoStub delegates to an in-memory repository unless a function field overrides the call.
type userRepoStub struct {
	repository.UserRepository
	getByIDFn      func(context.Context, uint) (*models.User, error)
	addFollowingFn func(context.Context, uint, uint) error
	getByIDCalls   int
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{UserRepository: repository.NewMemoryUserRepository()}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	s.getByIDCalls++
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return s.UserRepository.GetByID(ctx, id)
}

func (s *userRepoStub) AddFollowing(ctx context.Context, userID, followingID uint) error {
	if s.addFollowingFn != nil {
		return s.addFollowingFn(ctx, userID, followingID)
	}
	return s.UserRepository.AddFollowing(ctx, userID, followingID)
}

func seedUser(t *testing.T, repo repository.UserRepository, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Password: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}
