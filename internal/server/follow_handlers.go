package server

import (
	"athlos/internal/middleware"
	"athlos/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow creates a follow request toward the target profile.
func (s *Server) Follow(c *fiber.Ctx) error {
	target, err := s.parseUUID(c, "profileId")
	if err != nil {
		return nil
	}

	follow, err := s.followService.RequestFollow(c.UserContext(), target, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// Unfollow removes the requester's follow of the target profile.
func (s *Server) Unfollow(c *fiber.Ctx) error {
	target, err := s.parseUUID(c, "profileId")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), target, middleware.RequesterFromCtx(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPendingFollowRequests lists requests awaiting the requester's decision.
func (s *Server) GetPendingFollowRequests(c *fiber.Ctx) error {
	follows, err := s.followService.GetPendingRequests(c.UserContext(), middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"requests": follows})
}

// AcceptFollowRequest accepts a pending follow request.
func (s *Server) AcceptFollowRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	follow, err := s.followService.RespondToFollow(c.UserContext(), id, true, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(follow)
}

// RejectFollowRequest rejects a pending follow request.
func (s *Server) RejectFollowRequest(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	follow, err := s.followService.RespondToFollow(c.UserContext(), id, false, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(follow)
}

// GetFollowers lists accepted followers of a profile.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	profiles, err := s.followService.GetFollowers(c.UserContext(), id, p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"followers": profiles})
}

// GetFollowing lists profiles a profile follows (accepted).
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	profiles, err := s.followService.GetFollowing(c.UserContext(), id, p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"following": profiles})
}
