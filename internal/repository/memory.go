package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialhub/internal/models"
)

// memoryUserRepository keeps users in process memory. Records handed out are
// copies, so callers never alias the stored slices.
type memoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]*models.User
	byName map[string]uint
}

// NewMemoryUserRepository returns an empty in-memory UserRepository.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users:  make(map[uint]*models.User),
		byName: make(map[string]uint),
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Followers = copyIDs(u.Followers)
	c.Following = copyIDs(u.Following)
	return &c
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byName[user.Username]; taken {
		return errUsernameTaken()
	}
	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Followers == nil {
		user.Followers = []uint{}
	}
	if user.Following == nil {
		user.Following = []uint{}
	}
	r.users[user.ID] = cloneUser(user)
	r.byName[user.Username] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return cloneUser(u), nil
}

func (r *memoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, nil
	}
	return cloneUser(r.users[id]), nil
}

func (r *memoryUserRepository) List(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mutate applies fn to the stored user under the write lock.
func (r *memoryUserRepository) mutate(id uint, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	fn(u)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryUserRepository) AddFollower(_ context.Context, userID, followerID uint) error {
	return r.mutate(userID, func(u *models.User) { u.Followers = addMember(u.Followers, followerID) })
}

func (r *memoryUserRepository) RemoveFollower(_ context.Context, userID, followerID uint) error {
	return r.mutate(userID, func(u *models.User) { u.Followers = removeMember(u.Followers, followerID) })
}

func (r *memoryUserRepository) AddFollowing(_ context.Context, userID, followingID uint) error {
	return r.mutate(userID, func(u *models.User) { u.Following = addMember(u.Following, followingID) })
}

func (r *memoryUserRepository) RemoveFollowing(_ context.Context, userID, followingID uint) error {
	return r.mutate(userID, func(u *models.User) { u.Following = removeMember(u.Following, followingID) })
}

// memoryPostRepository keeps posts in process memory with embedded likes and comments.
type memoryPostRepository struct {
	mu            sync.RWMutex
	nextID        uint
	nextCommentID uint
	posts         map[uint]*models.Post
}

// NewMemoryPostRepository returns an empty in-memory PostRepository.
func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{posts: make(map[uint]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = copyIDs(p.Likes)
	c.Comments = make([]models.Comment, len(p.Comments))
	copy(c.Comments, p.Comments)
	return &c
}

// sortNewestFirst orders posts by creation time descending, then ID descending.
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

func (r *memoryPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt
	post.Likes = []uint{}
	post.Comments = []models.Comment{}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *memoryPostRepository) GetByID(_ context.Context, id uint) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	return clonePost(p), nil
}

func (r *memoryPostRepository) List(_ context.Context) ([]*models.Post, error) {
	r.mu.RLock()
	out := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, clonePost(p))
	}
	r.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (r *memoryPostRepository) mutate(id uint, fn func(p *models.Post)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.posts[id]
	if !ok {
		return models.NewNotFoundError("Post", id)
	}
	fn(p)
	return nil
}

func (r *memoryPostRepository) Update(_ context.Context, post *models.Post) error {
	return r.mutate(post.ID, func(p *models.Post) {
		p.Title = post.Title
		p.Description = post.Description
		p.Image = post.Image
		p.UpdatedAt = time.Now()
		post.UpdatedAt = p.UpdatedAt
	})
}

func (r *memoryPostRepository) Like(_ context.Context, postID, userID uint) error {
	return r.mutate(postID, func(p *models.Post) { p.Likes = addMember(p.Likes, userID) })
}

func (r *memoryPostRepository) Unlike(_ context.Context, postID, userID uint) error {
	return r.mutate(postID, func(p *models.Post) { p.Likes = removeMember(p.Likes, userID) })
}

func (r *memoryPostRepository) AddComment(_ context.Context, comment *models.Comment) error {
	return r.mutate(comment.PostID, func(p *models.Post) {
		r.nextCommentID++
		comment.ID = r.nextCommentID
		if comment.CreatedAt.IsZero() {
			comment.CreatedAt = time.Now()
		}
		p.Comments = append(p.Comments, *comment)
	})
}
