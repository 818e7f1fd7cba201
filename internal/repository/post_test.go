package repository

import (
	"context"
	"regexp"
	"testing"

	"socialhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	post := &models.Post{AuthorID: 1, Title: "T", Description: "D"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.Empty(t, post.Likes)
	assert.NotNil(t, post.Comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_AddCommentUnknownPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.AddComment(context.Background(), &models.Comment{PostID: 5, UserID: 1, Body: "hi"})
	assert.True(t, models.IsCode(err, models.CodeNotFound), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Post{ID: 9, Title: "t", Description: "d"})
	assert.True(t, models.IsCode(err, models.CodeNotFound), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Unlike(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "likes" WHERE post_id = $1 AND user_id = $2`)).
		WithArgs(3, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Unlike(context.Background(), 3, 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
