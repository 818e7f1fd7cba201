// Package repository implements the data access layer for the application.
// Every store (relational, badger, in-memory) satisfies the same interfaces
// and reports failures as models.AppError values.
package repository

import (
	"context"
	"errors"
	"strings"

	"socialhub/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository defines persistence operations for users and their follow sets.
type UserRepository interface {
	// Create stores user and assigns its ID. Returns a CONFLICT error when the username is taken.
	Create(ctx context.Context, user *models.User) error
	// GetByID returns the user with Followers and Following loaded, or a NOT_FOUND error.
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByUsername returns nil, nil when no user has that exact username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	AddFollower(ctx context.Context, userID, followerID uint) error
	RemoveFollower(ctx context.Context, userID, followerID uint) error
	AddFollowing(ctx context.Context, userID, followingID uint) error
	RemoveFollowing(ctx context.Context, userID, followingID uint) error
}

// PostRepository defines persistence operations for posts, likes and comments.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID returns the post with Likes and Comments loaded, or a NOT_FOUND error.
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// List returns every post, newest first; ties broken by descending ID.
	List(ctx context.Context) ([]*models.Post, error)
	// Update persists Title, Description and Image.
	Update(ctx context.Context, post *models.Post) error
	Like(ctx context.Context, postID, userID uint) error
	Unlike(ctx context.Context, postID, userID uint) error
	// AddComment appends comment to its post, or returns NOT_FOUND for an unknown post.
	AddComment(ctx context.Context, comment *models.Comment) error
}

func errUsernameTaken() error {
	return models.NewConflictError("User already exists")
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// addMember appends id to set unless already present.
func addMember(set []uint, id uint) []uint {
	for _, v := range set {
		if v == id {
			return set
		}
	}
	return append(set, id)
}

// removeMember returns set without id, preserving order.
func removeMember(set []uint, id uint) []uint {
	out := set[:0:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func copyIDs(ids []uint) []uint {
	out := make([]uint, len(ids))
	copy(out, ids)
	return out
}
