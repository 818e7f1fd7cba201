package service

import (
	"context"
	"slices"
	"strings"

	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"
	"socialhub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
	feed  *FeedService
}

type CreatePostInput struct {
	AuthorID    uint
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string
}

// UpdatePostInput carries a partial edit. Nil fields are left untouched; a
// non-nil empty string clears the field.
type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Title       *string
	Description *string
	Image       *string
}

type AddCommentInput struct {
	PostID uint
	UserID uint
	Body   string
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, feed *FeedService) *PostService {
	return &PostService{
		posts: posts,
		users: users,
		feed:  feed,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (view models.PostView, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.CreatePost", attribute.Int64("author_id", int64(in.AuthorID)))
	defer func() { span.Finish(err) }()

	if err := validation.Struct(in); err != nil {
		return models.PostView{}, err
	}

	post := &models.Post{
		AuthorID:    in.AuthorID,
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return models.PostView{}, err
	}
	return s.feed.AssembleOne(ctx, post, 0)
}

// ListPosts returns every post, newest first, as seen by viewerID.
func (s *PostService) ListPosts(ctx context.Context, viewerID uint) ([]models.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.feed.Assemble(ctx, posts, viewerID)
}

func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (models.PostView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.PostView{}, err
	}
	return s.feed.AssembleOne(ctx, post, viewerID)
}

// ToggleLike likes the post for userID, or removes the like if present. The
// returned view is from the liker's point of view.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID uint) (view models.PostView, err error) {
	span, ctx := observability.NewSpan(ctx, "PostService.ToggleLike",
		attribute.Int64("post_id", int64(postID)),
		attribute.Int64("user_id", int64(userID)),
	)
	defer func() { span.Finish(err) }()

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.PostView{}, err
	}

	action := "like"
	if slices.Contains(post.Likes, userID) {
		action = "unlike"
		err = s.posts.Unlike(ctx, postID, userID)
	} else {
		err = s.posts.Like(ctx, postID, userID)
	}
	if err != nil {
		return models.PostView{}, err
	}
	observability.LikesToggled.WithLabelValues(action).Inc()

	post, err = s.posts.GetByID(ctx, postID)
	if err != nil {
		return models.PostView{}, err
	}
	return s.feed.AssembleOne(ctx, post, userID)
}

// AddComment appends a comment under the commenter's current username.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (models.CommentView, error) {
	if _, err := s.posts.GetByID(ctx, in.PostID); err != nil {
		return models.CommentView{}, err
	}
	if strings.TrimSpace(in.Body) == "" {
		return models.CommentView{}, models.NewValidationError("Comment body is required")
	}

	userName := models.AnonymousAuthor
	user, err := s.users.GetByID(ctx, in.UserID)
	switch {
	case err == nil:
		userName = user.Username
	case !models.IsCode(err, models.CodeNotFound):
		return models.CommentView{}, err
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		UserID:   in.UserID,
		UserName: userName,
		Body:     in.Body,
	}
	if err := s.posts.AddComment(ctx, comment); err != nil {
		return models.CommentView{}, err
	}
	return models.NewCommentView(*comment), nil
}

// ListComments returns the post's comments in the order they were written.
func (s *PostService) ListComments(ctx context.Context, postID uint) ([]models.CommentView, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	out := make([]models.CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		out = append(out, models.NewCommentView(c))
	}
	return out, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (models.PostView, error) {
	post, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return models.PostView{}, err
	}
	if post.AuthorID != in.UserID {
		return models.PostView{}, models.NewForbiddenError("Only the author can edit this post")
	}

	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Description != nil {
		post.Description = *in.Description
	}
	if in.Image != nil {
		post.Image = *in.Image
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return models.PostView{}, err
	}
	return s.feed.AssembleOne(ctx, post, in.UserID)
}
