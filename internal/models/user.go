// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered identity. Followers and Following are not columns; the
// relational store keeps them in their own tables and the document stores
// embed them in the user record.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Followers []uint    `gorm:"-" json:"followers"`
	Following []uint    `gorm:"-" json:"following"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Follower records that FollowerID follows UserID.
type Follower struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_follower_pair" json:"userId"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_pair;index" json:"followerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Following is the mirror of Follower kept on the acting user's side.
type Following struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_following_pair" json:"userId"`
	FollowingID uint      `gorm:"not null;uniqueIndex:idx_following_pair;index" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName keeps the table singular; "followings" reads badly.
func (Following) TableName() string {
	return "following"
}
