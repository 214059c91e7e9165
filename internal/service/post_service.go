package service

import (
	"context"

	"murmur/internal/cache"
	"murmur/internal/models"
	"murmur/internal/policy"
	"murmur/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID   uint
	Content  string
	ImageURL string
	VideoURL string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Content  *string
	ImageURL *string
	VideoURL *string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

// CreatePost stores a new post. Content is accepted as-is, including
// empty strings; the product places no validation on post bodies.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		Content:  in.Content,
		ImageURL: in.ImageURL,
		VideoURL: in.VideoURL,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post
	var err error

	if in.Offset == 0 && in.Limit <= 20 {
		key := cache.GlobalFeedKey(in.Limit, in.Offset)
		err = cache.Aside(ctx, key, &posts, cache.GlobalFeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		// Re-enrich with current user's liked status if they are logged in
		if in.CurrentUserID != 0 && len(posts) > 0 {
			s.reapplyLiked(ctx, posts, in.CurrentUserID)
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

// reapplyLiked recomputes liked flags for a cached page, which was
// built without a viewer.
func (s *PostService) reapplyLiked(ctx context.Context, posts []*models.Post, currentUserID uint) {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	likedIDs, err := s.postRepo.GetLikedPostIDs(ctx, currentUserID, postIDs)
	if err != nil {
		return
	}
	likedMap := make(map[uint]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedMap[id] = true
	}
	for _, p := range posts {
		p.Liked = likedMap[p.ID]
	}
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// UpdatePost applies a partial update. Only the author may modify the
// post; nil fields keep their current value.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutatePost(in.UserID, post) {
		return nil, models.NewUnauthorizedError("You can only update your own posts")
	}

	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	if in.VideoURL != nil {
		post.VideoURL = *in.VideoURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if !policy.CanMutatePost(in.UserID, post) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost records a like for the user. The post must exist regardless
// of who asks. Anonymous requests succeed without recording anything:
// recorded reports whether a like was actually stored. Liking a post
// twice, or liking your own post, is allowed and idempotent.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}

	if userID == 0 {
		return post, false, nil
	}

	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, false, err
	}

	post, err = s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}
	return post, true, nil
}

// UnlikePost removes the user's like. Removing an absent like is a
// no-op; anonymous requests succeed without touching anything.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}

	if userID == 0 {
		return post, false, nil
	}

	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, false, err
	}

	post, err = s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}
	return post, true, nil
}
