package server

import (
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profiles/:userId (public)
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// UpdateProfile handles PUT /api/profiles/:userId (protected, self only)
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)

	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Bio     *string `json:"bio"`
		Picture *string `json:"picture"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(ctx, service.UpdateProfileInput{
		ActorID:      actorID,
		TargetUserID: targetUserID,
		Bio:          req.Bio,
		Picture:      req.Picture,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// FollowProfile handles POST /api/profiles/:userId/follow (protected)
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)

	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.Follow(ctx, actorID, targetUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// UnfollowProfile handles DELETE /api/profiles/:userId/follow (protected)
func (s *Server) UnfollowProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actorID := c.Locals("userID").(uint)

	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.Unfollow(ctx, actorID, targetUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profile)
}

// GetFollowers handles GET /api/profiles/:userId/followers (public)
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)

	followers, err := s.profileService.ListFollowers(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/profiles/:userId/following (public)
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 50)

	following, err := s.profileService.ListFollowing(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(following)
}

// SearchProfiles handles GET /api/profiles/search?query=. A blank
// query returns an empty list with 200, not an error.
func (s *Server) SearchProfiles(c *fiber.Ctx) error {
	ctx := c.UserContext()

	query := c.Query("query")
	page := parsePagination(c, 20)

	profiles, err := s.profileService.SearchProfiles(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(profiles)
}
