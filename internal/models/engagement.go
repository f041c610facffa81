package models

import (
	"time"

	"github.com/google/uuid"
)

// Like represents a profile's like on a post.
// The combination of PostID and ProfileID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_post_profile" json:"post_id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_post_profile" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Post    Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// SavedPost represents a profile bookmarking a post. Same shape and
// uniqueness contract as Like, backing the saves counter.
type SavedPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_save_profile_post" json:"profile_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_save_profile_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	Post    Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null" json:"profile_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Post    Post    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"profile"`
}
