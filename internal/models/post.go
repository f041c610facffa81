package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Post represents a post in the Athlos application.
//
// LikesCount, CommentsCount and SavesCount are denormalized caches of the
// corresponding child tables. They are only ever written together with the
// child-row mutation, inside the same transaction, as relative updates
// (counter = counter + 1). The authoritative values are always re-derivable by
// recounting child rows; see service.CounterService.RepairPostCounters.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	Profile   Profile   `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"profile"`
	Caption   string    `gorm:"type:text" json:"caption"`
	MediaURL  string    `gorm:"type:text" json:"media_url,omitempty"`
	// Tags holds mentioned profile IDs (UUID strings). Historically this column
	// also carried free-text category labels; those are legacy data and are
	// skipped by the mention resolver rather than rejected.
	Tags       pq.StringArray `gorm:"type:text[]" json:"tags"`
	Visibility Visibility     `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"`

	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`
	SavesCount    int `gorm:"not null;default:0" json:"saves_count"`

	// Liked/Saved indicate whether the requesting profile liked/saved this post
	// (computed at query time, never persisted).
	Liked bool `gorm:"->" json:"liked"`
	Saved bool `gorm:"->" json:"saved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
