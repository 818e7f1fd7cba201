package repository

import (
	"context"
	"errors"

	"socialhub/internal/cache"
	"socialhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository over a GORM connection. Reads by
// ID go through the Redis cache when one is configured.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return errUsernameTaken()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return r.loadRelations(ctx, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.loadRelations(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, u := range users {
		if err := r.loadRelations(ctx, u); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// loadRelations fills Followers and Following in insertion order.
func (r *userRepository) loadRelations(ctx context.Context, user *models.User) error {
	followers := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Follower{}).
		Where("user_id = ?", user.ID).Order("id").
		Pluck("follower_id", &followers).Error; err != nil {
		return models.NewInternalError(err)
	}
	following := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.Following{}).
		Where("user_id = ?", user.ID).Order("id").
		Pluck("following_id", &following).Error; err != nil {
		return models.NewInternalError(err)
	}
	user.Followers = followers
	user.Following = following
	return nil
}

func (r *userRepository) AddFollower(ctx context.Context, userID, followerID uint) error {
	edge := &models.Follower{UserID: userID, FollowerID: followerID}
	return r.writeEdge(ctx, userID, r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge))
}

func (r *userRepository) RemoveFollower(ctx context.Context, userID, followerID uint) error {
	return r.writeEdge(ctx, userID, r.db.WithContext(ctx).
		Where("user_id = ? AND follower_id = ?", userID, followerID).
		Delete(&models.Follower{}))
}

func (r *userRepository) AddFollowing(ctx context.Context, userID, followingID uint) error {
	edge := &models.Following{UserID: userID, FollowingID: followingID}
	return r.writeEdge(ctx, userID, r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(edge))
}

func (r *userRepository) RemoveFollowing(ctx context.Context, userID, followingID uint) error {
	return r.writeEdge(ctx, userID, r.db.WithContext(ctx).
		Where("user_id = ? AND following_id = ?", userID, followingID).
		Delete(&models.Following{}))
}

// writeEdge maps the result of an edge write and drops the owner's cached record.
func (r *userRepository) writeEdge(ctx context.Context, ownerID uint, result *gorm.DB) error {
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, ownerID)
	return nil
}
