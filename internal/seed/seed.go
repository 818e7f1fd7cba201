// Package seed creates demo data through the repositories. It is intended for
// development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/repository"
	"socialhub/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is shared by every generated user.
const DefaultPassword = "password123"

// Options configures generated data.
type Options struct {
	NumUsers int
	NumPosts int
	// MaxDays spreads post creation times over the last MaxDays days.
	MaxDays int
}

// Seeder writes generated or fixture data into a pair of repositories.
type Seeder struct {
	users repository.UserRepository
	posts repository.PostRepository
	graph *service.GraphService
	faker *gofakeit.Faker
	now   func() time.Time
}

func NewSeeder(users repository.UserRepository, posts repository.PostRepository, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		users: users,
		posts: posts,
		graph: service.NewGraphService(users),
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// Run generates users with a random follow mesh, then posts with likes and comments.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	users, err := s.SeedSocialMesh(ctx, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "users created", slog.Int("count", len(users)))

	posts, err := s.SeedEngagement(ctx, users, opts.NumPosts, opts.MaxDays)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	middleware.Logger.InfoContext(ctx, "posts created", slog.Int("count", len(posts)))
	return nil
}

// SeedSocialMesh creates n users sharing DefaultPassword and has each follow
// up to three others.
func (s *Seeder) SeedSocialMesh(ctx context.Context, n int) ([]*models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u := &models.User{
			Username: fmt.Sprintf("%s%d", s.faker.Username(), i+1),
			Password: string(hash),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		users = append(users, u)
	}

	if len(users) < 2 {
		return users, nil
	}
	for _, actor := range users {
		follows := s.faker.Number(0, min(3, len(users)-1))
		seen := map[uint]bool{actor.ID: true}
		for j := 0; j < follows; j++ {
			target := users[s.faker.Number(0, len(users)-1)]
			if seen[target.ID] {
				continue
			}
			seen[target.ID] = true
			if _, err := s.graph.ToggleFollow(ctx, actor.ID, target.ID); err != nil {
				return nil, fmt.Errorf("follow %d -> %d: %w", actor.ID, target.ID, err)
			}
		}
	}
	return users, nil
}

// SeedEngagement creates numPosts posts by random authors with creation times
// spread over maxDays, then adds random likes and comments.
func (s *Seeder) SeedEngagement(ctx context.Context, users []*models.User, numPosts, maxDays int) ([]*models.Post, error) {
	if len(users) == 0 || numPosts <= 0 {
		return nil, nil
	}
	if maxDays <= 0 {
		maxDays = 30
	}

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.faker.Number(0, len(users)-1)]
		back := time.Duration(s.faker.Number(0, maxDays*24*60)) * time.Minute
		p := &models.Post{
			AuthorID:    author.ID,
			Title:       s.faker.Sentence(5),
			Description: s.faker.Paragraph(1, 3, 12, " "),
			CreatedAt:   s.now().Add(-back),
		}
		if s.faker.Bool() {
			p.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", s.faker.UUID())
		}
		if err := s.posts.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}

		for _, u := range users {
			if s.faker.Number(1, 100) <= 30 {
				if err := s.posts.Like(ctx, p.ID, u.ID); err != nil {
					return nil, fmt.Errorf("like post %d: %w", p.ID, err)
				}
			}
		}
		for c := s.faker.Number(0, 3); c > 0; c-- {
			commenter := users[s.faker.Number(0, len(users)-1)]
			comment := &models.Comment{
				PostID:   p.ID,
				UserID:   commenter.ID,
				UserName: commenter.Username,
				Body:     s.faker.Sentence(8),
			}
			if err := s.posts.AddComment(ctx, comment); err != nil {
				return nil, fmt.Errorf("comment on post %d: %w", p.ID, err)
			}
		}
		posts = append(posts, p)
	}
	return posts, nil
}
