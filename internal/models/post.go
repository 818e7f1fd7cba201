package models

import "time"

// Post is a piece of user content. Likes is the set of user ids that liked
// the post; Comments is append-only and kept in insertion order.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"authorId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `gorm:"type:text" json:"image"`
	Likes       []uint    `gorm:"-" json:"likes"`
	Comments    []Comment `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
