package service

import (
	"context"
	"errors"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn     func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn            func(context.Context, int, int, uint) ([]*models.Post, error)
	listByAuthorsFn   func(context.Context, []uint, int, int, uint) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	getLikedPostIDsFn func(context.Context, uint, []uint) ([]uint, error)
	likeFn            func(context.Context, uint, uint) error
	unlikeFn          func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs, limit, offset, currentUserID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) ([]uint, error) {
	return s.getLikedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) error {
	return s.unlikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:          func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:         func(_ context.Context, _, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		getByUserIDFn:     func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn:            func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listByAuthorsFn:   func(_ context.Context, _ []uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		isLikedFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getLikedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		likeFn:            func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:          func(_ context.Context, _, _ uint) error { return nil },
	}
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

// assertNotFoundError asserts that err is an AppError with code NOT_FOUND.
func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestPostService_CreatePost_AcceptsAnyContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"normal content", "hello world"},
		{"empty content", ""},
		{"whitespace only", "   "},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := noopPostRepo()
			var stored *models.Post
			repo.createFn = func(_ context.Context, p *models.Post) error {
				p.ID = 7
				stored = p
				return nil
			}
			repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
				return &models.Post{ID: id, Content: stored.Content, UserID: stored.UserID}, nil
			}
			svc := NewPostService(repo)

			post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Content: tc.content})
			require.NoError(t, err)
			assert.Equal(t, tc.content, post.Content)
		})
	}
}

func TestPostService_UpdatePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot update", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		svc := NewPostService(repo)
		content := "new"
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: &content})
		assertUnauthorizedError(t, err)
	})

	t.Run("owner can update content", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1, Content: "old"}, nil
		}
		svc := NewPostService(repo)
		content := "new"
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: &content})
		require.NoError(t, err)
		assert.Equal(t, "new", post.Content)
	})

	t.Run("nil fields keep current values", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1, Content: "old", ImageURL: "img"}, nil
		}
		svc := NewPostService(repo)
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1})
		require.NoError(t, err)
		assert.Equal(t, "old", post.Content)
		assert.Equal(t, "img", post.ImageURL)
	})

	t.Run("clearing content to empty is allowed", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1, Content: "old"}, nil
		}
		svc := NewPostService(repo)
		empty := ""
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{UserID: 1, PostID: 1, Content: &empty})
		require.NoError(t, err)
		assert.Equal(t, "", post.Content)
	})
}

func TestPostService_DeletePost_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 1}, nil
		}
		svc := NewPostService(repo)
		assert.NoError(t, svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1}))
	})

	t.Run("non-owner returns unauthorized", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1, UserID: 10}, nil
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 1})
		assertUnauthorizedError(t, err)
	})

	t.Run("missing post is not found, not forbidden", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(repo)
		err := svc.DeletePost(context.Background(), DeletePostInput{UserID: 1, PostID: 99})
		assertNotFoundError(t, err)
	})
}

func TestPostService_LikePost(t *testing.T) {
	t.Parallel()

	t.Run("anonymous like is a successful no-op", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		liked := false
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 5}, nil
		}
		repo.likeFn = func(_ context.Context, _, _ uint) error {
			liked = true
			return nil
		}
		svc := NewPostService(repo)

		post, recorded, err := svc.LikePost(context.Background(), 0, 1)
		require.NoError(t, err)
		assert.NotNil(t, post)
		assert.False(t, recorded)
		assert.False(t, liked, "anonymous like must not touch storage")
	})

	t.Run("anonymous like of missing post is still not found", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(repo)

		_, _, err := svc.LikePost(context.Background(), 0, 99)
		assertNotFoundError(t, err)
	})

	t.Run("authenticated like is recorded", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		var likedBy, likedPost uint
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 5}, nil
		}
		repo.likeFn = func(_ context.Context, userID, postID uint) error {
			likedBy, likedPost = userID, postID
			return nil
		}
		svc := NewPostService(repo)

		_, recorded, err := svc.LikePost(context.Background(), 3, 1)
		require.NoError(t, err)
		assert.True(t, recorded)
		assert.Equal(t, uint(3), likedBy)
		assert.Equal(t, uint(1), likedPost)
	})

	t.Run("liking your own post is allowed", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 3}, nil
		}
		svc := NewPostService(repo)

		_, recorded, err := svc.LikePost(context.Background(), 3, 1)
		require.NoError(t, err)
		assert.True(t, recorded)
	})
}

func TestPostService_UnlikePost(t *testing.T) {
	t.Parallel()

	t.Run("anonymous unlike is a successful no-op", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		unliked := false
		repo.unlikeFn = func(_ context.Context, _, _ uint) error {
			unliked = true
			return nil
		}
		svc := NewPostService(repo)

		_, recorded, err := svc.UnlikePost(context.Background(), 0, 1)
		require.NoError(t, err)
		assert.False(t, recorded)
		assert.False(t, unliked)
	})

	t.Run("authenticated unlike removes the like", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		unliked := false
		repo.unlikeFn = func(_ context.Context, _, _ uint) error {
			unliked = true
			return nil
		}
		svc := NewPostService(repo)

		_, recorded, err := svc.UnlikePost(context.Background(), 3, 1)
		require.NoError(t, err)
		assert.True(t, recorded)
		assert.True(t, unliked)
	})
}
