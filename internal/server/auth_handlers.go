package server

import (
	"socialhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.Credentials
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	if _, err := s.authService.Register(c.UserContext(), req); err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered",
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.Credentials
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	session, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(session)
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.authService.Logout(c.UserContext(), c.Get(fiber.HeaderAuthorization)); err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
