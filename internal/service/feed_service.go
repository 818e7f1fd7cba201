package service

import (
	"context"

	"socialhub/internal/models"
	"socialhub/internal/repository"
)

// FeedService turns stored posts into the views returned to clients. The
// isFollowingAuthor flag is answered by the social graph.
type FeedService struct {
	users repository.UserRepository
	graph *GraphService
}

func NewFeedService(users repository.UserRepository, graph *GraphService) *FeedService {
	return &FeedService{users: users, graph: graph}
}

// Assemble builds one view per post, in input order. viewerID 0 is the
// anonymous viewer. Authors are looked up once per call; a missing author
// yields models.AnonymousAuthor and a nil AuthorID.
func (s *FeedService) Assemble(ctx context.Context, posts []*models.Post, viewerID uint) ([]models.PostView, error) {
	authors := make(map[uint]*models.User)
	views := make([]models.PostView, 0, len(posts))

	for _, p := range posts {
		author, seen := authors[p.AuthorID]
		if !seen {
			u, err := s.users.GetByID(ctx, p.AuthorID)
			switch {
			case err == nil:
				author = u
			case models.IsCode(err, models.CodeNotFound):
				author = nil
			default:
				return nil, err
			}
			authors[p.AuthorID] = author
		}
		views = append(views, s.buildView(p, author, viewerID))
	}
	return views, nil
}

// AssembleOne is Assemble for a single post.
func (s *FeedService) AssembleOne(ctx context.Context, post *models.Post, viewerID uint) (models.PostView, error) {
	views, err := s.Assemble(ctx, []*models.Post{post}, viewerID)
	if err != nil {
		return models.PostView{}, err
	}
	return views[0], nil
}

func (s *FeedService) buildView(p *models.Post, author *models.User, viewerID uint) models.PostView {
	likes := p.Likes
	if likes == nil {
		likes = []uint{}
	}
	comments := make([]models.CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, models.NewCommentView(c))
	}

	view := models.PostView{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Author:      models.AnonymousAuthor,
		Likes:       likes,
		LikesCount:  len(likes),
		Comments:    comments,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if author != nil {
		id := author.ID
		view.Author = author.Username
		view.AuthorID = &id
		view.IsFollowingAuthor = s.graph.Follows(author, viewerID)
	}
	return view
}
