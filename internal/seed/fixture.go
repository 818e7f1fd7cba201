package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"socialhub/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set, usually loaded from YAML:
//
//	users:
//	  - {username: alice, password: pw1}
//	  - {username: bob, password: pw2}
//	follows:
//	  - {follower: bob, target: alice}
//	posts:
//	  - author: alice
//	    title: Hello
//	    description: First post
//	    likes: [bob]
//	    comments:
//	      - {user: bob, body: welcome}
type Fixture struct {
	Users   []FixtureUser   `yaml:"users"`
	Follows []FixtureFollow `yaml:"follows"`
	Posts   []FixturePost   `yaml:"posts"`
}

type FixtureUser struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type FixtureFollow struct {
	Follower string `yaml:"follower"`
	Target   string `yaml:"target"`
}

type FixturePost struct {
	Author      string           `yaml:"author"`
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	Image       string           `yaml:"image"`
	CreatedAt   time.Time        `yaml:"createdAt"`
	Likes       []string         `yaml:"likes"`
	Comments    []FixtureComment `yaml:"comments"`
}

type FixtureComment struct {
	User string `yaml:"user"`
	Body string `yaml:"body"`
}

// LoadFixture decodes a YAML fixture from r.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads the YAML fixture at path.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadFixture(file)
}

// ApplyFixture creates every user, follow, post, like and comment in f.
// References to usernames not declared in f.Users fail the whole fixture.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) error {
	byName := make(map[string]*models.User, len(f.Users))
	for _, fu := range f.Users {
		if fu.Username == "" || fu.Password == "" {
			return fmt.Errorf("fixture user needs username and password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(fu.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", fu.Username, err)
		}
		u := &models.User{Username: fu.Username, Password: string(hash)}
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", fu.Username, err)
		}
		byName[u.Username] = u
	}

	lookup := func(name string) (*models.User, error) {
		u, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("fixture references unknown user %q", name)
		}
		return u, nil
	}

	for _, ff := range f.Follows {
		follower, err := lookup(ff.Follower)
		if err != nil {
			return err
		}
		target, err := lookup(ff.Target)
		if err != nil {
			return err
		}
		if _, err := s.graph.ToggleFollow(ctx, follower.ID, target.ID); err != nil {
			return fmt.Errorf("follow %s -> %s: %w", ff.Follower, ff.Target, err)
		}
	}

	for _, fp := range f.Posts {
		author, err := lookup(fp.Author)
		if err != nil {
			return err
		}
		p := &models.Post{
			AuthorID:    author.ID,
			Title:       fp.Title,
			Description: fp.Description,
			Image:       fp.Image,
			CreatedAt:   fp.CreatedAt,
		}
		if err := s.posts.Create(ctx, p); err != nil {
			return fmt.Errorf("create post %q: %w", fp.Title, err)
		}
		for _, name := range fp.Likes {
			liker, err := lookup(name)
			if err != nil {
				return err
			}
			if err := s.posts.Like(ctx, p.ID, liker.ID); err != nil {
				return fmt.Errorf("like post %q: %w", fp.Title, err)
			}
		}
		for _, fc := range fp.Comments {
			commenter, err := lookup(fc.User)
			if err != nil {
				return err
			}
			c := &models.Comment{PostID: p.ID, UserID: commenter.ID, UserName: commenter.Username, Body: fc.Body}
			if err := s.posts.AddComment(ctx, c); err != nil {
				return fmt.Errorf("comment on post %q: %w", fp.Title, err)
			}
		}
	}
	return nil
}
