package service

import (
	"context"

	"athlos/internal/models"
	"athlos/internal/observability"
	"athlos/internal/policy"
	"athlos/internal/repository"

	"github.com/google/uuid"
)

// PostService implements post CRUD and engagement operations.
type PostService struct {
	postRepo repository.PostRepository
	mentions *MentionService
}

// CreatePostInput carries the payload for creating a post.
type CreatePostInput struct {
	Requester  policy.Requester
	Caption    string
	MediaURL   string
	Tags       []string
	Visibility string
}

// UpdatePostInput carries owner edits to an existing post.
type UpdatePostInput struct {
	Requester  policy.Requester
	PostID     uint
	Caption    *string
	Tags       []string
	Visibility *string
}

// ListPostsInput carries feed pagination.
type ListPostsInput struct {
	Requester policy.Requester
	Limit     int
	Offset    int
}

const maxCaptionLen = 2200
const maxMentionsPerPost = 30

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, mentions *MentionService) *PostService {
	return &PostService{postRepo: postRepo, mentions: mentions}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if !in.Requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	if len(in.Caption) > maxCaptionLen {
		return nil, models.NewValidationError("Caption too long (max 2200 characters)")
	}
	if err := ValidateTags(in.Tags); err != nil {
		return nil, err
	}
	if len(in.Tags) > maxMentionsPerPost {
		return nil, models.NewValidationError("Too many mentions (max 30)")
	}

	visibility := models.Visibility(in.Visibility)
	if in.Visibility == "" {
		visibility = models.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, models.NewValidationError("Invalid visibility")
	}

	post := &models.Post{
		ProfileID:  in.Requester.ProfileID,
		Caption:    in.Caption,
		MediaURL:   in.MediaURL,
		Tags:       in.Tags,
		Visibility: visibility,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.Requester)
}

func (s *PostService) GetPost(ctx context.Context, id uint, requester policy.Requester) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, requester)
}

// GetPostMentions resolves a post's tags into the mentioned profiles the
// requester may see.
func (s *PostService) GetPostMentions(ctx context.Context, id uint, requester policy.Requester) ([]*models.Profile, error) {
	post, err := s.postRepo.GetByID(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	return s.mentions.ResolveMentions(ctx, post.Tags, requester)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, normalizeLimit(in.Limit), in.Offset, in.Requester)
}

func (s *PostService) GetProfilePosts(ctx context.Context, profileID uuid.UUID, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	return s.postRepo.GetByProfileID(ctx, profileID, normalizeLimit(limit), offset, requester)
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, normalizeLimit(limit), offset, requester)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Requester)
	if err != nil {
		return nil, err
	}
	if !in.Requester.Owns(post.ProfileID) {
		return nil, models.NewPolicyDeniedError("You can only update your own posts")
	}

	if in.Caption != nil {
		if len(*in.Caption) > maxCaptionLen {
			return nil, models.NewValidationError("Caption too long (max 2200 characters)")
		}
		post.Caption = *in.Caption
	}
	if in.Tags != nil {
		if err := ValidateTags(in.Tags); err != nil {
			return nil, err
		}
		if len(in.Tags) > maxMentionsPerPost {
			return nil, models.NewValidationError("Too many mentions (max 30)")
		}
		post.Tags = in.Tags
	}
	if in.Visibility != nil {
		v := models.Visibility(*in.Visibility)
		if !v.Valid() {
			return nil, models.NewValidationError("Invalid visibility")
		}
		post.Visibility = v
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID uint, requester policy.Requester) error {
	post, err := s.postRepo.GetByID(ctx, postID, requester)
	if err != nil {
		return err
	}
	if !requester.Owns(post.ProfileID) {
		observability.PolicyDenials.WithLabelValues("posts", "delete").Inc()
		return models.NewPolicyDeniedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *PostService) LikePost(ctx context.Context, postID uint, requester policy.Requester) (*models.Post, error) {
	if err := s.postRepo.Like(ctx, postID, requester); err != nil {
		return nil, err
	}
	observability.EngagementWrites.WithLabelValues("like", "add").Inc()
	return s.postRepo.GetByID(ctx, postID, requester)
}

func (s *PostService) UnlikePost(ctx context.Context, postID uint, requester policy.Requester) (*models.Post, error) {
	if err := s.postRepo.Unlike(ctx, postID, requester); err != nil {
		return nil, err
	}
	observability.EngagementWrites.WithLabelValues("like", "remove").Inc()
	return s.postRepo.GetByID(ctx, postID, requester)
}

func (s *PostService) SavePost(ctx context.Context, postID uint, requester policy.Requester) (*models.Post, error) {
	if err := s.postRepo.Save(ctx, postID, requester); err != nil {
		return nil, err
	}
	observability.EngagementWrites.WithLabelValues("save", "add").Inc()
	return s.postRepo.GetByID(ctx, postID, requester)
}

func (s *PostService) UnsavePost(ctx context.Context, postID uint, requester policy.Requester) (*models.Post, error) {
	if err := s.postRepo.Unsave(ctx, postID, requester); err != nil {
		return nil, err
	}
	observability.EngagementWrites.WithLabelValues("save", "remove").Inc()
	return s.postRepo.GetByID(ctx, postID, requester)
}

func (s *PostService) GetSavedPosts(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	if !requester.Authenticated {
		return nil, models.NewPolicyDeniedError("Authentication required")
	}
	return s.postRepo.GetSaved(ctx, normalizeLimit(limit), offset, requester)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
