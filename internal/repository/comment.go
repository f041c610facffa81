package repository

import (
	"context"

	"athlos/internal/cache"
	"athlos/internal/models"
	"athlos/internal/policy"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment, requester policy.Requester) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetByPostID(ctx context.Context, postID uint, limit, offset int, requester policy.Requester) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the post's comments counter in the
// same transaction, after verifying the post is visible to the requester.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment, requester policy.Requester) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).
			Scopes(policy.PostReadable(requester)).
			Where("posts.id = ?", comment.PostID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err != nil {
		return translateError(err, "Comment")
	}
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Profile").First(&comment, id).Error; err != nil {
		return nil, translateError(err, "Comment")
	}
	return &comment, nil
}

func (r *commentRepository) GetByPostID(ctx context.Context, postID uint, limit, offset int, requester policy.Requester) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Profile").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Scopes(policy.PostReadable(requester)).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return translateError(err, "Comment")
	}
	return nil
}

// Delete removes the comment and decrements the post's comments counter in
// the same transaction, floored at zero.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comments_count", gorm.Expr("GREATEST(comments_count - 1, 0)")).Error
	})
	if err != nil {
		return translateError(err, "Comment")
	}
	cache.Invalidate(ctx, cache.PostKey(comment.PostID))
	return nil
}
