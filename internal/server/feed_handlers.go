package server

import (
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed. A Bearer token is honored but never
// required: signed-in viewers get posts from accounts they follow,
// everyone else gets the global stream. The response carries the mode
// the page was actually served in, which may be "global" even for a
// signed-in viewer when the social graph lookup degrades.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	posts, mode, err := s.feedService.Compose(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"posts": posts,
		"mode":  mode,
	})
}
