package service

import (
	"context"

	"murmur/internal/models"
	"murmur/internal/policy"
	"murmur/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment attaches a comment to an existing post. A missing post
// is a not-found error, never an implicit create. Comment bodies carry
// no validation; empty content is stored as-is.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

// ListComments returns the comments on one post, newest first. An
// unknown post id yields an empty page rather than an error.
func (s *CommentService) ListComments(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID, limit, offset, currentUserID)
}

// ListAllComments returns the flat comment stream across every post.
func (s *CommentService) ListAllComments(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListAll(ctx, limit, offset, currentUserID)
}

func (s *CommentService) GetComment(ctx context.Context, id uint, currentUserID uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id, currentUserID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateComment(in.UserID, comment) {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID, in.UserID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateComment(in.UserID, comment) {
		return nil, models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}

	return comment, nil
}

// LikeComment mirrors the post-like contract: the comment must exist,
// anonymous requests are a successful no-op, repeats are idempotent.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID uint) (*models.Comment, bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID, userID)
	if err != nil {
		return nil, false, err
	}

	if userID == 0 {
		return comment, false, nil
	}

	if err := s.commentRepo.Like(ctx, userID, commentID); err != nil {
		return nil, false, err
	}

	comment, err = s.commentRepo.GetByID(ctx, commentID, userID)
	if err != nil {
		return nil, false, err
	}
	return comment, true, nil
}

func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID uint) (*models.Comment, bool, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID, userID)
	if err != nil {
		return nil, false, err
	}

	if userID == 0 {
		return comment, false, nil
	}

	if err := s.commentRepo.Unlike(ctx, userID, commentID); err != nil {
		return nil, false, err
	}

	comment, err = s.commentRepo.GetByID(ctx, commentID, userID)
	if err != nil {
		return nil, false, err
	}
	return comment, true, nil
}
