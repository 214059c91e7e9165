// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; inserts go through
// ON CONFLICT DO NOTHING so repeated likes are no-ops.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}

// CommentLike represents a user's like on a comment, with the same
// idempotent set semantics as post likes.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Comment Comment `gorm:"foreignKey:CommentID" json:"comment"`
}
