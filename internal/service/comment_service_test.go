package service

import (
	"context"
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint, int, int, uint) ([]*models.Comment, error)
	listAllFn    func(context.Context, int, int, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
	likeFn       func(context.Context, uint, uint) error
	unlikeFn     func(context.Context, uint, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset, currentUserID)
}
func (s *commentRepoStub) ListAll(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	return s.listAllFn(ctx, limit, offset, currentUserID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) Like(ctx context.Context, userID, commentID uint) error {
	return s.likeFn(ctx, userID, commentID)
}
func (s *commentRepoStub) Unlike(ctx context.Context, userID, commentID uint) error {
	return s.unlikeFn(ctx, userID, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPostFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Comment, error) {
			return nil, nil
		},
		listAllFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		likeFn:    func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:  func(_ context.Context, _, _ uint) error { return nil },
	}
}

func TestCommentService_CreateComment_RequiresExistingPost(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewCommentService(noopCommentRepo(), postRepo)

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
	assertNotFoundError(t, err)
}

func TestCommentService_CreateComment_AcceptsAnyContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"normal content", "nice post"},
		{"empty content", ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			commentRepo := noopCommentRepo()
			var stored *models.Comment
			commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
				c.ID = 5
				stored = c
				return nil
			}
			commentRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
				return &models.Comment{ID: id, Content: stored.Content, PostID: stored.PostID}, nil
			}
			svc := NewCommentService(commentRepo, noopPostRepo())

			comment, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 1, PostID: 2, Content: tc.content})
			require.NoError(t, err)
			assert.Equal(t, tc.content, comment.Content)
		})
	}
}

func TestCommentService_ListComments_UnknownPostIsEmptyPage(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	commentRepo := noopCommentRepo()
	commentRepo.listByPostFn = func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Comment, error) {
		return []*models.Comment{}, nil
	}
	svc := NewCommentService(commentRepo, postRepo)

	comments, err := svc.ListComments(context.Background(), 99, 50, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCommentService_ListAllComments_SpansPosts(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	commentRepo.listAllFn = func(_ context.Context, _, _ int, _ uint) ([]*models.Comment, error) {
		return []*models.Comment{
			{ID: 2, PostID: 7},
			{ID: 1, PostID: 4},
		}, nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	comments, err := svc.ListAllComments(context.Background(), 50, 0, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.NotEqual(t, comments[0].PostID, comments[1].PostID)
}

func TestCommentService_UpdateComment_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot update", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 1, CommentID: 1, Content: "edit"})
		assertUnauthorizedError(t, err)
	})

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		current := &models.Comment{ID: 1, UserID: 1, Content: "old"}
		commentRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Comment, error) {
			return current, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		comment, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 1, CommentID: 1, Content: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", comment.Content)
	})
}

func TestCommentService_DeleteComment_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("non-owner cannot delete", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 1})
		assertUnauthorizedError(t, err)
	})

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo())
		_, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 1})
		assert.NoError(t, err)
	})
}

func TestCommentService_LikeComment_AnonymousNoOp(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	liked := false
	commentRepo.likeFn = func(_ context.Context, _, _ uint) error {
		liked = true
		return nil
	}
	svc := NewCommentService(commentRepo, noopPostRepo())

	_, recorded, err := svc.LikeComment(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.False(t, recorded)
	assert.False(t, liked)
}
