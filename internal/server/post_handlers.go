package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Title       string `json:"title"`
		Content     string `json:"content"`
		IsPublished *bool  `json:"is_published,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	published := true
	if req.IsPublished != nil {
		published = *req.IsPublished
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		AuthorID:    userID,
		Title:       req.Title,
		Content:     req.Content,
		IsPublished: published,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID := optionalUserID(c)

	posts, err := s.postService.ListPosts(ctx, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := optionalUserID(c)

	post, err := s.postService.GetPost(ctx, id, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	userID := optionalUserID(c)

	posts, err := s.postService.ListPostsByAuthor(ctx, authorID, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, userID, postID); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetSavedPosts handles GET /api/me/saved
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	posts, err := s.engagementService.ListSavedPosts(ctx, userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(posts)
}
