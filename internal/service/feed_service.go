package service

import (
	"context"
	"log/slog"

	"murmur/internal/cache"
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/repository"
)

// Feed modes reported alongside composed pages.
const (
	FeedModePersonal = "personal"
	FeedModeGlobal   = "global"
)

// FeedService composes the home timeline: posts from followed authors
// for signed-in users, the global stream for everyone else.
type FeedService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
}

func NewFeedService(
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		followRepo:  followRepo,
	}
}

// Compose returns one feed page and the mode it was served in.
//
// Anonymous viewers always get the global feed. For signed-in viewers
// the feed is scoped to followed authors; if the viewer's profile or
// follow list cannot be resolved the feed degrades to global rather
// than failing the request. A viewer who follows nobody gets an empty
// page, not the global stream.
func (s *FeedService) Compose(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, string, error) {
	if userID == 0 {
		posts, err := s.globalFeed(ctx, limit, offset, 0)
		if err != nil {
			return nil, "", err
		}
		middleware.FeedComposed.WithLabelValues(FeedModeGlobal).Inc()
		return posts, FeedModeGlobal, nil
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return s.fallbackToGlobal(ctx, userID, limit, offset, err)
	}

	followingIDs, err := s.followRepo.FollowingUserIDs(ctx, profile.ID)
	if err != nil {
		return s.fallbackToGlobal(ctx, userID, limit, offset, err)
	}

	if len(followingIDs) == 0 {
		middleware.FeedComposed.WithLabelValues(FeedModePersonal).Inc()
		return []*models.Post{}, FeedModePersonal, nil
	}

	posts, err := s.postRepo.ListByAuthors(ctx, followingIDs, limit, offset, userID)
	if err != nil {
		return nil, "", err
	}
	middleware.FeedComposed.WithLabelValues(FeedModePersonal).Inc()
	return posts, FeedModePersonal, nil
}

// fallbackToGlobal serves the global feed when the social graph lookup
// fails. The degradation is logged and counted but never surfaced.
func (s *FeedService) fallbackToGlobal(ctx context.Context, userID uint, limit, offset int, cause error) ([]*models.Post, string, error) {
	middleware.Logger.WarnContext(ctx, "Feed degraded to global",
		slog.Uint64("user_id", uint64(userID)),
		slog.String("cause", cause.Error()),
	)
	middleware.FeedFallbacks.Inc()

	posts, err := s.globalFeed(ctx, limit, offset, userID)
	if err != nil {
		return nil, "", err
	}
	middleware.FeedComposed.WithLabelValues(FeedModeGlobal).Inc()
	return posts, FeedModeGlobal, nil
}

// globalFeed returns a page of the sitewide stream. The first page is
// served cache-aside and re-personalized with the viewer's likes.
func (s *FeedService) globalFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if offset != 0 || limit > 20 {
		return s.postRepo.List(ctx, limit, offset, currentUserID)
	}

	var posts []*models.Post
	key := cache.GlobalFeedKey(limit, offset)
	err := cache.Aside(ctx, key, &posts, cache.GlobalFeedTTL, func() error {
		var fetchErr error
		posts, fetchErr = s.postRepo.List(ctx, limit, offset, 0)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	if currentUserID != 0 && len(posts) > 0 {
		postIDs := make([]uint, len(posts))
		for i, p := range posts {
			postIDs[i] = p.ID
		}
		likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, currentUserID, postIDs)
		if err == nil {
			likedMap := make(map[uint]bool, len(likedIDs))
			for _, id := range likedIDs {
				likedMap[id] = true
			}
			for _, p := range posts {
				p.Liked = likedMap[p.ID]
			}
		}
	}
	return posts, nil
}
