package service

import (
	"context"
	"strings"

	"athlos/internal/models"
	"athlos/internal/observability"
	"athlos/internal/policy"
	"athlos/internal/repository"
)

// CommentService implements comment reads and writes.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

const maxCommentLen = 1000

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) AddComment(ctx context.Context, postID uint, content string, requester policy.Requester) (*models.Comment, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	comment := &models.Comment{
		PostID:    postID,
		ProfileID: requester.ProfileID,
		Content:   content,
	}
	if err := s.commentRepo.Create(ctx, comment, requester); err != nil {
		return nil, err
	}
	observability.EngagementWrites.WithLabelValues("comment", "add").Inc()
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) GetComments(ctx context.Context, postID uint, limit, offset int, requester policy.Requester) ([]*models.Comment, error) {
	return s.commentRepo.GetByPostID(ctx, postID, normalizeLimit(limit), offset, requester)
}

// DeleteComment removes a comment. The comment author and the post owner may
// both delete; anyone else is denied.
func (s *CommentService) DeleteComment(ctx context.Context, commentID uint, requester policy.Requester) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if !requester.Owns(comment.ProfileID) {
		post, err := s.postRepo.GetByID(ctx, comment.PostID, requester)
		if err != nil || !requester.Owns(post.ProfileID) {
			observability.PolicyDenials.WithLabelValues("comments", "delete").Inc()
			return models.NewPolicyDeniedError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, comment); err != nil {
		return err
	}
	observability.EngagementWrites.WithLabelValues("comment", "remove").Inc()
	return nil
}
