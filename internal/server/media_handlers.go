package server

import (
	"athlos/internal/middleware"
	"athlos/internal/models"
	"athlos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia accepts a multipart image upload and stores it under the
// requester's prefix.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, models.NewValidationError("A file is required"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	defer src.Close()

	result, err := s.mediaService.Upload(c.UserContext(), service.MediaUploadInput{
		Requester:   middleware.RequesterFromCtx(c),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Reader:      src,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// DeleteMedia removes an object from the requester's own prefix. The wildcard
// param carries the full object key, slashes included.
func (s *Server) DeleteMedia(c *fiber.Ctx) error {
	key := c.Params("+")
	if key == "" {
		return models.RespondWithError(c, models.NewValidationError("An object key is required"))
	}

	if err := s.mediaService.Delete(c.UserContext(), key, middleware.RequesterFromCtx(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
