package server

import (
	"athlos/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RepairCounters recomputes every denormalized post counter from its child
// table and reports how many rows drifted.
func (s *Server) RepairCounters(c *fiber.Ctx) error {
	result, err := s.counterService.RepairPostCounters(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}
