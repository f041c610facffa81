package server

import (
	"athlos/internal/middleware"
	"athlos/internal/models"
	"athlos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns a single profile by ID, subject to visibility.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetProfile(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// GetProfileByHandle returns a single profile by its handle.
func (s *Server) GetProfileByHandle(c *fiber.Ctx) error {
	handle := c.Params("handle")

	profile, err := s.profileService.GetProfileByHandle(c.UserContext(), handle, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// SearchProfiles searches profiles by handle or name.
func (s *Server) SearchProfiles(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	query := c.Query("q")

	profiles, err := s.profileService.SearchProfiles(c.UserContext(), query, p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"profiles": profiles})
}

// GetMyProfile returns the authenticated profile.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	requester := middleware.RequesterFromCtx(c)

	profile, err := s.profileService.GetProfile(c.UserContext(), requester.ProfileID, requester)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

type updateProfileRequest struct {
	Handle     *string `json:"handle"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Bio        *string `json:"bio"`
	AvatarURL  *string `json:"avatar_url"`
	Visibility *string `json:"visibility"`
}

// UpdateMyProfile applies owner edits to the authenticated profile.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	requester := middleware.RequesterFromCtx(c)

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		Requester:  requester,
		ProfileID:  requester.ProfileID,
		Handle:     req.Handle,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Bio:        req.Bio,
		AvatarURL:  req.AvatarURL,
		Visibility: req.Visibility,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// DeleteMyProfile removes the authenticated profile and everything under it.
func (s *Server) DeleteMyProfile(c *fiber.Ctx) error {
	requester := middleware.RequesterFromCtx(c)

	if err := s.profileService.DeleteProfile(c.UserContext(), requester.ProfileID, requester); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetProfilePosts returns a profile's posts, subject to post visibility.
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.GetProfilePosts(c.UserContext(), id, p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
