package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"socialhub/internal/models"

	"github.com/dgraph-io/badger/v4"
)

// Badger key layout. Users and posts are stored as JSON documents with their
// membership sets and comments embedded.
const (
	badgerUserPrefix     = "user:"
	badgerUsernamePrefix = "username:"
	badgerPostPrefix     = "post:"

	badgerUserSeq    = "seq:user"
	badgerPostSeq    = "seq:post"
	badgerCommentSeq = "seq:comment"
)

func userDocKey(id uint) []byte      { return []byte(fmt.Sprintf("%s%d", badgerUserPrefix, id)) }
func usernameKey(name string) []byte { return []byte(badgerUsernamePrefix + name) }
func postDocKey(id uint) []byte      { return []byte(fmt.Sprintf("%s%d", badgerPostPrefix, id)) }
func encodeID(id uint) []byte        { return binary.BigEndian.AppendUint64(nil, uint64(id)) }

func decodeID(b []byte) (uint, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("corrupt id value of %d bytes", len(b))
	}
	return uint(binary.BigEndian.Uint64(b)), nil
}

// nextID increments the counter stored at seqKey inside txn.
func nextID(txn *badger.Txn, seqKey string) (uint, error) {
	var id uint
	item, err := txn.Get([]byte(seqKey))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(val []byte) error {
			id, err = decodeID(val)
			return err
		}); err != nil {
			return 0, err
		}
	}
	id++
	if err := txn.Set([]byte(seqKey), encodeID(id)); err != nil {
		return 0, err
	}
	return id, nil
}

// getDoc loads the JSON document at key into dest; found is false when the key is absent.
func getDoc(txn *badger.Txn, key []byte, dest any) (bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func putDoc(txn *badger.Txn, key []byte, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	return txn.Set(key, data)
}

// scanDocs decodes every document under prefix, calling fn with a fresh decoder target.
func scanDocs(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// appErr passes AppErrors through and wraps anything else as internal.
func appErr(err error) error {
	if err == nil {
		return nil
	}
	var ae *models.AppError
	if errors.As(err, &ae) {
		return err
	}
	return models.NewInternalError(err)
}

// userDocument is the stored form of a user. It differs from models.User in
// keeping the password hash, which the API JSON omits.
type userDocument struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Followers    []uint    `json:"followers"`
	Following    []uint    `json:"following"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID,
		Username:  d.Username,
		Password:  d.PasswordHash,
		Followers: copyIDs(d.Followers),
		Following: copyIDs(d.Following),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type badgerUserRepository struct {
	db *badger.DB
	mu sync.Mutex // serializes writers so transactions never conflict
}

// NewBadgerUserRepository returns a UserRepository over an open badger store.
func NewBadgerUserRepository(db *badger.DB) UserRepository {
	return &badgerUserRepository{db: db}
}

func (r *badgerUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(usernameKey(user.Username)); err == nil {
			return errUsernameTaken()
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		id, err := nextID(txn, badgerUserSeq)
		if err != nil {
			return err
		}
		now := time.Now()
		doc := &userDocument{
			ID:           id,
			Username:     user.Username,
			PasswordHash: user.Password,
			Followers:    []uint{},
			Following:    []uint{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := putDoc(txn, userDocKey(id), doc); err != nil {
			return err
		}
		if err := txn.Set(usernameKey(user.Username), encodeID(id)); err != nil {
			return err
		}
		user.ID = id
		user.Followers = []uint{}
		user.Following = []uint{}
		user.CreatedAt = now
		user.UpdatedAt = now
		return nil
	})
	return appErr(err)
}

func (r *badgerUserRepository) GetByID(_ context.Context, id uint) (*models.User, error) {
	var doc userDocument
	err := r.db.View(func(txn *badger.Txn) error {
		found, err := getDoc(txn, userDocKey(id), &doc)
		if err != nil {
			return err
		}
		if !found {
			return models.NewNotFoundError("User", id)
		}
		return nil
	})
	if err != nil {
		return nil, appErr(err)
	}
	return doc.toModel(), nil
}

func (r *badgerUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var doc userDocument
	var found bool
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		var id uint
		if err := item.Value(func(val []byte) error {
			id, err = decodeID(val)
			return err
		}); err != nil {
			return err
		}
		found, err = getDoc(txn, userDocKey(id), &doc)
		return err
	})
	if err != nil {
		return nil, appErr(err)
	}
	if !found {
		return nil, nil
	}
	return doc.toModel(), nil
}

func (r *badgerUserRepository) List(_ context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, badgerUserPrefix, func(val []byte) error {
			var doc userDocument
			if err := json.Unmarshal(val, &doc); err != nil {
				return err
			}
			users = append(users, doc.toModel())
			return nil
		})
	})
	if err != nil {
		return nil, appErr(err)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *badgerUserRepository) mutate(id uint, fn func(doc *userDocument)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return appErr(r.db.Update(func(txn *badger.Txn) error {
		var doc userDocument
		found, err := getDoc(txn, userDocKey(id), &doc)
		if err != nil {
			return err
		}
		if !found {
			return models.NewNotFoundError("User", id)
		}
		fn(&doc)
		doc.UpdatedAt = time.Now()
		return putDoc(txn, userDocKey(id), &doc)
	}))
}

func (r *badgerUserRepository) AddFollower(_ context.Context, userID, followerID uint) error {
	return r.mutate(userID, func(d *userDocument) { d.Followers = addMember(d.Followers, followerID) })
}

func (r *badgerUserRepository) RemoveFollower(_ context.Context, userID, followerID uint) error {
	return r.mutate(userID, func(d *userDocument) { d.Followers = removeMember(d.Followers, followerID) })
}

func (r *badgerUserRepository) AddFollowing(_ context.Context, userID, followingID uint) error {
	return r.mutate(userID, func(d *userDocument) { d.Following = addMember(d.Following, followingID) })
}

func (r *badgerUserRepository) RemoveFollowing(_ context.Context, userID, followingID uint) error {
	return r.mutate(userID, func(d *userDocument) { d.Following = removeMember(d.Following, followingID) })
}

type badgerPostRepository struct {
	db *badger.DB
	mu sync.Mutex
}

// NewBadgerPostRepository returns a PostRepository over an open badger store.
func NewBadgerPostRepository(db *badger.DB) PostRepository {
	return &badgerPostRepository{db: db}
}

func normalizePost(p *models.Post) *models.Post {
	if p.Likes == nil {
		p.Likes = []uint{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	return p
}

func (r *badgerPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return appErr(r.db.Update(func(txn *badger.Txn) error {
		id, err := nextID(txn, badgerPostSeq)
		if err != nil {
			return err
		}
		post.ID = id
		if post.CreatedAt.IsZero() {
			post.CreatedAt = time.Now()
		}
		post.UpdatedAt = post.CreatedAt
		post.Likes = []uint{}
		post.Comments = []models.Comment{}
		return putDoc(txn, postDocKey(id), post)
	}))
}

func (r *badgerPostRepository) GetByID(_ context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		found, err := getDoc(txn, postDocKey(id), &post)
		if err != nil {
			return err
		}
		if !found {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		return nil, appErr(err)
	}
	return normalizePost(&post), nil
}

func (r *badgerPostRepository) List(_ context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanDocs(txn, badgerPostPrefix, func(val []byte) error {
			var p models.Post
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			posts = append(posts, normalizePost(&p))
			return nil
		})
	})
	if err != nil {
		return nil, appErr(err)
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (r *badgerPostRepository) mutate(id uint, fn func(txn *badger.Txn, p *models.Post) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return appErr(r.db.Update(func(txn *badger.Txn) error {
		var p models.Post
		found, err := getDoc(txn, postDocKey(id), &p)
		if err != nil {
			return err
		}
		if !found {
			return models.NewNotFoundError("Post", id)
		}
		if err := fn(txn, normalizePost(&p)); err != nil {
			return err
		}
		return putDoc(txn, postDocKey(id), &p)
	}))
}

func (r *badgerPostRepository) Update(_ context.Context, post *models.Post) error {
	return r.mutate(post.ID, func(_ *badger.Txn, p *models.Post) error {
		p.Title = post.Title
		p.Description = post.Description
		p.Image = post.Image
		p.UpdatedAt = time.Now()
		post.UpdatedAt = p.UpdatedAt
		return nil
	})
}

func (r *badgerPostRepository) Like(_ context.Context, postID, userID uint) error {
	return r.mutate(postID, func(_ *badger.Txn, p *models.Post) error {
		p.Likes = addMember(p.Likes, userID)
		return nil
	})
}

func (r *badgerPostRepository) Unlike(_ context.Context, postID, userID uint) error {
	return r.mutate(postID, func(_ *badger.Txn, p *models.Post) error {
		p.Likes = removeMember(p.Likes, userID)
		return nil
	})
}

func (r *badgerPostRepository) AddComment(_ context.Context, comment *models.Comment) error {
	return r.mutate(comment.PostID, func(txn *badger.Txn, p *models.Post) error {
		id, err := nextID(txn, badgerCommentSeq)
		if err != nil {
			return err
		}
		comment.ID = id
		if comment.CreatedAt.IsZero() {
			comment.CreatedAt = time.Now()
		}
		p.Comments = append(p.Comments, *comment)
		return nil
	})
}
