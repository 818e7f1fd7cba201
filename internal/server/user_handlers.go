package server

import (
	"socialhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.graphService.ListUsers(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "id", "User")
	if err != nil {
		return nil
	}

	user, err := s.graphService.Profile(c.UserContext(), userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(user)
}

// FollowUser handles POST /api/users/:id/follow, toggling the follow.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	actorID := c.Locals(middleware.LocalUserID).(uint)
	targetID, err := parseID(c, "id", "User")
	if err != nil {
		return nil
	}

	followed, err := s.graphService.ToggleFollow(c.UserContext(), actorID, targetID)
	if err != nil {
		return respond(c, err)
	}

	message := "Unfollowed"
	if followed {
		message = "Followed"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}
