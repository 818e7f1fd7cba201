package models

import "time"

// Comment is a reply on a post. UserName is copied from the author at write
// time and is not kept in sync afterwards.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	UserID    uint      `gorm:"not null" json:"userId"`
	UserName  string    `gorm:"not null" json:"userName"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
