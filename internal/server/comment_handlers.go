package server

import (
	"murmur/internal/middleware"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments (protected).
// The post must exist; the comment body itself is unvalidated.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments (public)
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)
	userID, _ := s.optionalUserID(c)

	comments, err := s.commentService.ListComments(ctx, postID, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comments)
}

// GetAllComments handles GET /api/comments: a flat sitewide listing
// across all posts, newest first.
func (s *Server) GetAllComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page := parsePagination(c, 50)
	userID, _ := s.optionalUserID(c)

	comments, err := s.commentService.ListAllComments(ctx, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comments)
}

// GetComment handles GET /api/comments/:id (public)
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	comment, err := s.commentService.GetComment(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id (protected, owner only)
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id (protected, owner only)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// LikeComment handles POST /api/comments/:id/like, under the same
// anonymous no-op contract as post likes.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	comment, recorded, err := s.commentService.LikeComment(ctx, userID, commentID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if !recorded {
		middleware.AnonymousLikes.Inc()
		return c.JSON(fiber.Map{
			"message":        "Like recorded (anonymous user)",
			"anonymous_like": true,
			"comment":        comment,
		})
	}

	return c.JSON(comment)
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	comment, recorded, err := s.commentService.UnlikeComment(ctx, userID, commentID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	if !recorded {
		middleware.AnonymousLikes.Inc()
		return c.JSON(fiber.Map{
			"message":        "Like removed (anonymous user)",
			"anonymous_like": true,
			"comment":        comment,
		})
	}

	return c.JSON(comment)
}
