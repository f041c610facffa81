package server

import (
	"encoding/json"

	"athlos/internal/middleware"
	"athlos/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListSportSettings returns all of the requester's per-sport settings.
func (s *Server) ListSportSettings(c *fiber.Ctx) error {
	settings, err := s.sportSettingsService.List(c.UserContext(), middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// GetSportSettings returns the requester's settings for one sport.
func (s *Server) GetSportSettings(c *fiber.Ctx) error {
	settings, err := s.sportSettingsService.Get(c.UserContext(), c.Params("sportKey"), middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(settings)
}

// PutSportSettings creates or replaces the requester's settings for one sport.
func (s *Server) PutSportSettings(c *fiber.Ctx) error {
	body := c.Body()

	settings, err := s.sportSettingsService.Put(c.UserContext(), c.Params("sportKey"), json.RawMessage(body), middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(settings)
}

// DeleteSportSettings removes the requester's settings for one sport.
func (s *Server) DeleteSportSettings(c *fiber.Ctx) error {
	if err := s.sportSettingsService.Delete(c.UserContext(), c.Params("sportKey"), middleware.RequesterFromCtx(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
