// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/observability"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges
// between profiles.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uint) error
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	ListFollowers(ctx context.Context, profileID uint, limit, offset int) ([]*models.Profile, error)
	ListFollowing(ctx context.Context, profileID uint, limit, offset int) ([]*models.Profile, error)
	FollowingUserIDs(ctx context.Context, profileID uint) ([]uint, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Follow inserts the edge. Re-following is a no-op, handled atomically
// with ON CONFLICT so concurrent requests cannot produce duplicates.
func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		followerID, followeeID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	r.invalidateEdge(ctx, followerID, followeeID)
	return nil
}

// Unfollow removes the edge. Removing an absent edge is a no-op.
func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	r.invalidateEdge(ctx, followerID, followeeID)
	return nil
}

// invalidateEdge drops cached profiles on both ends so follower and
// following counts stay fresh.
func (r *followRepository) invalidateEdge(ctx context.Context, followerID, followeeID uint) {
	var userIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id IN ?", []uint{followerID, followeeID}).
		Pluck("user_id", &userIDs).Error; err != nil {
		return
	}
	for _, id := range userIDs {
		cache.Invalidate(ctx, cache.ProfileKey(id))
	}
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, profileID uint, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := readDB(r.db).WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = profiles.id").
		Where("follows.followee_id = ?", profileID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("User").
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, profileID uint, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := readDB(r.db).WithContext(ctx).
		Joins("JOIN follows ON follows.followee_id = profiles.id").
		Where("follows.follower_id = ?", profileID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("User").
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// FollowingUserIDs returns the user IDs behind every profile the given
// profile follows. Used to scope the personalized feed.
func (r *followRepository) FollowingUserIDs(ctx context.Context, profileID uint) ([]uint, error) {
	defer observability.TrackQuery("following_user_ids", "follows")()
	var userIDs []uint
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Joins("JOIN profiles ON profiles.id = follows.followee_id").
		Where("follows.follower_id = ?", profileID).
		Pluck("profiles.user_id", &userIDs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return userIDs, nil
}
