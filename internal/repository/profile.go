// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// applyProfileDetails adds subqueries to fetch follower, following, and
// post counts in a single query.
func (r *profileRepository) applyProfileDetails(db *gorm.DB) *gorm.DB {
	return db.Select("profiles.*, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.followee_id = profiles.id) as followers_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = profiles.id) as following_count, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.user_id = profiles.user_id AND posts.deleted_at IS NULL) as posts_count")
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(userID)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		if err := r.applyProfileDetails(readDB(r.db).WithContext(ctx)).
			Preload("User").
			Where("user_id = ?", userID).
			First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Profile", userID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.applyProfileDetails(readDB(r.db).WithContext(ctx)).
		Preload("User").
		First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ProfileKey(profile.UserID))
	return nil
}

// likePatternEscaper neutralizes LIKE metacharacters so user input only
// ever matches literally.
var likePatternEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches profiles by the owning user's username, treating the
// query as a literal substring. Callers are responsible for rejecting
// empty queries.
func (r *profileRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error) {
	defer observability.TrackQuery("search", "profiles")()
	var profiles []*models.Profile
	like := "%" + likePatternEscaper.Replace(query) + "%"
	if err := r.applyProfileDetails(readDB(r.db).WithContext(ctx)).
		Joins("JOIN users ON users.id = profiles.user_id AND users.deleted_at IS NULL").
		Where("users.username ILIKE ?", like).
		Order("profiles.id ASC").
		Limit(limit).
		Offset(offset).
		Preload("User").
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
