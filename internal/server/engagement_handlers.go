package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLikePost(ctx, userID, postID, idempotencyKey(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(result)
}

// SavePost handles POST /api/posts/:id/save
func (s *Server) SavePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleSavePost(ctx, userID, postID, idempotencyKey(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(result)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLikeComment(ctx, userID, commentID, idempotencyKey(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(result)
}
