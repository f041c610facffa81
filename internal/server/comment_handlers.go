package server

import (
	"athlos/internal/middleware"
	"athlos/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment adds a comment to a visible post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), postID, req.Content, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments lists a post's comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	comments, err := s.commentService.GetComments(c.UserContext(), postID, p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// DeleteComment removes a comment (author or post owner).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), id, middleware.RequesterFromCtx(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
