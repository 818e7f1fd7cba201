package server

import (
	"socialhub/internal/middleware"
	"socialhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	comments, err := s.postService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uint)

	var req struct {
		PostID uint   `json:"postId"`
		Body   string `json:"body"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	comment, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		PostID: req.PostID,
		UserID: userID,
		Body:   req.Body,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"userName": comment.UserName,
		"body":     comment.Body,
	})
}
