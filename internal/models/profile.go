// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Profile holds the public-facing profile for a user. Every user gets
// exactly one profile, created in the same transaction as the account.
type Profile struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Bio     string `gorm:"type:text" json:"bio"`
	Picture string `json:"picture"`
	// FollowersCount is not persisted; computed at query time
	FollowersCount int `gorm:"->" json:"followers_count"`
	// FollowingCount is not persisted; computed at query time
	FollowingCount int `gorm:"->" json:"following_count"`
	// PostsCount is not persisted; computed at query time
	PostsCount int       `gorm:"->" json:"posts_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Follow is a directed edge in the social graph: the follower profile
// follows the followee profile. The reverse ("followers") view is the
// inverse relation, computed, never stored twice.
// The combination of FollowerID and FolloweeID must be unique.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower Profile `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee Profile `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
