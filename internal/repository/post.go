package repository

import (
	"context"
	"errors"

	"socialhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postRepository implements PostRepository over GORM. Likes live in their own
// table and are folded back into Post.Likes on read.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.id ASC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	post.Likes = []uint{}
	post.Comments = []models.Comment{}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Comments", orderComments).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.attachLikes(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", orderComments).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachLikes loads the like sets of posts with a single query.
func (r *postRepository) attachLikes(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	byID := make(map[uint]*models.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Likes = []uint{}
		if p.Comments == nil {
			p.Comments = []models.Comment{}
		}
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).Where("post_id IN ?", ids).Order("id").Find(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}
	for _, l := range likes {
		if p, ok := byID[l.PostID]; ok {
			p.Likes = append(p.Likes, l.UserID)
		}
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	result := r.db.WithContext(ctx).Model(post).
		Select("title", "description", "image", "updated_at").
		Updates(post)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

func (r *postRepository) Like(ctx context.Context, postID, userID uint) error {
	like := &models.Like{PostID: postID, UserID: userID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, postID, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
		return models.NewInternalError(err)
	}
	if count == 0 {
		return models.NewNotFoundError("Post", comment.PostID)
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
