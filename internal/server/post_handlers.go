package server

import (
	"athlos/internal/middleware"
	"athlos/internal/models"
	"athlos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Caption    string   `json:"caption"`
	MediaURL   string   `json:"media_url"`
	Tags       []string `json:"tags"`
	Visibility string   `json:"visibility"`
}

// CreatePost creates a post for the authenticated profile.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Requester:  middleware.RequesterFromCtx(c),
		Caption:    req.Caption,
		MediaURL:   req.MediaURL,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts returns the public/visible feed.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		Requester: middleware.RequesterFromCtx(c),
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost returns a single post, subject to visibility.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// GetPostMentions resolves a post's tags to the mentioned profiles.
func (s *Server) GetPostMentions(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profiles, err := s.postService.GetPostMentions(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"mentions": profiles})
}

// SearchPosts searches captions of visible posts.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	query := c.Query("q")

	posts, err := s.postService.SearchPosts(c.UserContext(), query, p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

type updatePostRequest struct {
	Caption    *string  `json:"caption"`
	Tags       []string `json:"tags"`
	Visibility *string  `json:"visibility"`
}

// UpdatePost applies owner edits to a post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Requester:  middleware.RequesterFromCtx(c),
		PostID:     id,
		Caption:    req.Caption,
		Tags:       req.Tags,
		Visibility: req.Visibility,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes the requester's own post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id, middleware.RequesterFromCtx(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost records a like; liking twice is a conflict.
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.LikePost(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// UnlikePost removes a like; removing a missing like is a no-op.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// SavePost bookmarks a post for the requester.
func (s *Server) SavePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.SavePost(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// UnsavePost removes a bookmark.
func (s *Server) UnsavePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnsavePost(c.UserContext(), id, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// GetSavedPosts lists the requester's bookmarks.
func (s *Server) GetSavedPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.GetSavedPosts(c.UserContext(), p.Limit, p.Offset, middleware.RequesterFromCtx(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}
