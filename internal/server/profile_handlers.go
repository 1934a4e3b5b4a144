package server

import (
	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/:username. The page is public; the
// is_following flag reflects the viewer when a valid token accompanies the
// request.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.feedService.Profile(c.Context(), c.Params("username"), s.viewer(c), parsePage(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(profile)
}

// GetFollowerFeed handles GET /api/feed: posts by authors the viewer follows.
func (s *Server) GetFollowerFeed(c *fiber.Ctx) error {
	feed, err := s.feedService.FollowerFeed(c.Context(), s.viewer(c), parsePage(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(feed)
}

// GetFollowing handles GET /api/feed/authors: the authors the viewer follows.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	authors, err := s.followService.Following(c.Context(), s.viewer(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"authors": authors,
		"count":   len(authors),
	})
}

// FollowUser handles POST /api/users/:username/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	if err := s.followService.Follow(c.Context(), s.viewer(c), c.Params("username")); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"following": true,
	})
}

// UnfollowUser handles DELETE /api/users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	if err := s.followService.Unfollow(c.Context(), s.viewer(c), c.Params("username")); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"following": false,
	})
}
