package repository

import (
	"context"
	"fmt"

	"athlos/internal/cache"
	"athlos/internal/models"
	"athlos/internal/observability"
	"athlos/internal/policy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, requester policy.Requester) (*models.Post, error)
	GetByProfileID(ctx context.Context, profileID uuid.UUID, limit, offset int, requester policy.Requester) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	Like(ctx context.Context, postID uint, requester policy.Requester) error
	Unlike(ctx context.Context, postID uint, requester policy.Requester) error
	Save(ctx context.Context, postID uint, requester policy.Requester) error
	Unsave(ctx context.Context, postID uint, requester policy.Requester) error
	GetSaved(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error)

	RepairCounter(ctx context.Context, counter PostCounter) (int64, error)
}

// PostCounter identifies one of the denormalized per-post counters.
type PostCounter string

const (
	CounterLikes    PostCounter = "likes_count"
	CounterComments PostCounter = "comments_count"
	CounterSaves    PostCounter = "saves_count"
)

// childTable returns the table whose row count is the authoritative value for
// the counter.
func (c PostCounter) childTable() string {
	switch c {
	case CounterLikes:
		return "likes"
	case CounterComments:
		return "comments"
	case CounterSaves:
		return "saved_posts"
	}
	return ""
}

// PostCounters lists every repairable counter.
var PostCounters = []PostCounter{CounterLikes, CounterComments, CounterSaves}

// postRepository implements PostRepository
type postRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translateError(err, "Post")
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, requester policy.Requester) (*models.Post, error) {
	var post models.Post

	var err error
	if !requester.Authenticated {
		// Anonymous reads only ever see public rows, which makes them safe to cache.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), requester).
				Scopes(policy.PostReadable(requester)).
				Preload("Profile").
				First(&post, "posts.id = ?", id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), requester).
			Scopes(policy.PostReadable(requester)).
			Preload("Profile").
			First(&post, "posts.id = ?", id).Error
	}
	if err != nil {
		return nil, translateError(err, "Post")
	}
	return &post, nil
}

func (r *postRepository) GetByProfileID(ctx context.Context, profileID uuid.UUID, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), requester).
		Scopes(policy.PostReadable(requester)).
		Preload("Profile").
		Where("posts.profile_id = ?", profileID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), requester).
		Scopes(policy.PostReadable(requester)).
		Preload("Profile").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	if err := r.applyPostDetails(r.db.WithContext(ctx), requester).
		Scopes(policy.PostReadable(requester)).
		Preload("Profile").
		Where("posts.caption ILIKE ?", like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries resolving the requester's liked/saved
// status in the same query. Counters are stored columns, not computed here.
func (r *postRepository) applyPostDetails(db *gorm.DB, requester policy.Requester) *gorm.DB {
	if !requester.Authenticated {
		return db.Select("posts.*, false as liked, false as saved")
	}
	return db.Select(
		"posts.*, "+
			"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.profile_id = ?) as liked, "+
			"EXISTS(SELECT 1 FROM saved_posts WHERE saved_posts.post_id = posts.id AND saved_posts.profile_id = ?) as saved",
		requester.ProfileID, requester.ProfileID,
	)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return translateError(err, "Post")
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return translateError(err, "Post")
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	return nil
}

// Like records the requester's like and bumps the post's likes counter in the
// same transaction. The counter write is relative so concurrent likes never
// clobber each other; a duplicate like fails the unique index and surfaces as
// a constraint violation without touching the counter.
func (r *postRepository) Like(ctx context.Context, postID uint, requester policy.Requester) error {
	defer r.metrics.TrackQuery("like", "likes")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireReadable(tx, postID, requester); err != nil {
			return err
		}
		like := models.Like{PostID: postID, ProfileID: requester.ProfileID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return translateError(err, "Like")
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

// Unlike removes the requester's like and decrements the counter, floored at
// zero. Removing a like that does not exist is a no-op and leaves the counter
// untouched.
func (r *postRepository) Unlike(ctx context.Context, postID uint, requester policy.Requester) error {
	defer r.metrics.TrackQuery("unlike", "likes")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND profile_id = ?", postID, requester.ProfileID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("GREATEST(likes_count - 1, 0)")).Error
	})
	if err != nil {
		return translateError(err, "Like")
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

func (r *postRepository) Save(ctx context.Context, postID uint, requester policy.Requester) error {
	defer r.metrics.TrackQuery("save", "saved_posts")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.requireReadable(tx, postID, requester); err != nil {
			return err
		}
		save := models.SavedPost{PostID: postID, ProfileID: requester.ProfileID}
		if err := tx.Create(&save).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("saves_count", gorm.Expr("saves_count + 1")).Error
	})
	if err != nil {
		return translateError(err, "Save")
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

func (r *postRepository) Unsave(ctx context.Context, postID uint, requester policy.Requester) error {
	defer r.metrics.TrackQuery("unsave", "saved_posts")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND profile_id = ?", postID, requester.ProfileID).
			Delete(&models.SavedPost{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("saves_count", gorm.Expr("GREATEST(saves_count - 1, 0)")).Error
	})
	if err != nil {
		return translateError(err, "Save")
	}
	cache.Invalidate(ctx, cache.PostKey(postID))
	return nil
}

func (r *postRepository) GetSaved(ctx context.Context, limit, offset int, requester policy.Requester) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.applyPostDetails(r.db.WithContext(ctx), requester).
		Scopes(policy.PostReadable(requester)).
		Preload("Profile").
		Joins("JOIN saved_posts sp ON sp.post_id = posts.id").
		Where("sp.profile_id = ?", requester.ProfileID).
		Order("sp.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// requireReadable verifies inside the transaction that the post exists and is
// visible to the requester; invisible and missing posts are indistinguishable.
func (r *postRepository) requireReadable(tx *gorm.DB, postID uint, requester policy.Requester) error {
	var count int64
	if err := tx.Model(&models.Post{}).
		Scopes(policy.PostReadable(requester)).
		Where("posts.id = ?", postID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RepairCounter resets one counter to the true child-row count for every post
// where the stored value has drifted, and reports how many rows were fixed.
// The statement is a single UPDATE so it is safe to run while writes continue,
// and running it with no drift touches zero rows.
func (r *postRepository) RepairCounter(ctx context.Context, counter PostCounter) (int64, error) {
	child := counter.childTable()
	if child == "" {
		return 0, models.NewValidationError(fmt.Sprintf("unknown counter %q", counter))
	}

	defer r.metrics.TrackQuery("repair", child)()

	sql := fmt.Sprintf(`
		UPDATE posts SET %[1]s = sub.actual
		FROM (
			SELECT posts.id, COUNT(%[2]s.id) AS actual
			FROM posts
			LEFT JOIN %[2]s ON %[2]s.post_id = posts.id
			GROUP BY posts.id
		) sub
		WHERE posts.id = sub.id AND posts.%[1]s IS DISTINCT FROM sub.actual`,
		string(counter), child,
	)

	res := r.db.WithContext(ctx).Exec(sql)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}
