package models

import "time"

// AnonymousAuthor is shown when a post's author record no longer resolves.
const AnonymousAuthor = "Anonymous"

// PostView is the denormalized post returned to clients.
type PostView struct {
	ID                uint          `json:"id"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Image             string        `json:"image"`
	Author            string        `json:"author"`
	AuthorID          *uint         `json:"authorId"`
	Likes             []uint        `json:"likes"`
	LikesCount        int           `json:"likesCount"`
	Comments          []CommentView `json:"comments"`
	IsFollowingAuthor bool          `json:"isFollowingAuthor"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// CommentView is a comment as exposed to clients.
type CommentView struct {
	UserID    uint      `json:"userId"`
	UserName  string    `json:"userName"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCommentView copies the public fields of c.
func NewCommentView(c Comment) CommentView {
	return CommentView{
		UserID:    c.UserID,
		UserName:  c.UserName,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// PublicUser is a user without credential material.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Followers []uint    `json:"followers"`
	Following []uint    `json:"following"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewPublicUser strips u down to its public fields. Nil membership sets are
// returned as empty arrays.
func NewPublicUser(u *User) PublicUser {
	followers := u.Followers
	if followers == nil {
		followers = []uint{}
	}
	following := u.Following
	if following == nil {
		following = []uint{}
	}
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Followers: followers,
		Following: following,
		CreatedAt: u.CreatedAt,
	}
}
