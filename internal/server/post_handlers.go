package server

import (
	"socialhub/internal/featureflags"
	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext(), s.optionalUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), postID, s.optionalUserID(c))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. The route only exists while the
// post_edit flag is on for the caller.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uint)
	if !s.featureFlags.Enabled(featureflags.PostEdit, userID) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			&models.AppError{Code: models.CodeNotFound, Message: "Cannot PUT " + c.Path()})
	}

	postID, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Image       *string `json:"image"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:      userID,
		PostID:      postID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}

// LikePost handles POST /api/posts/:id/like, toggling the caller's like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalUserID).(uint)
	postID, err := parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleLike(c.UserContext(), postID, userID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(post)
}
