// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls who may read a profile or post.
type Visibility string

const (
	// VisibilityPublic makes the row readable by everyone.
	VisibilityPublic Visibility = "public"
	// VisibilityFollowers restricts reads to accepted followers and the owner.
	VisibilityFollowers Visibility = "followers"
	// VisibilityPrivate restricts reads to the owner.
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityPrivate:
		return true
	}
	return false
}

// Profile represents an athlete profile. The ID is shared with the identity
// provider's subject, so a profile row is created with the identity it belongs to.
type Profile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// Handle is optional; when set it is lowercase-normalized and unique
	// case-insensitively (enforced by a unique index on LOWER(handle)).
	Handle     *string    `gorm:"size:30" json:"handle,omitempty"`
	FirstName  string     `gorm:"size:100" json:"first_name"`
	LastName   string     `gorm:"size:100" json:"last_name"`
	FullName   string     `gorm:"size:200" json:"full_name"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Bio        string     `gorm:"type:text" json:"bio"`
	AvatarURL  string     `json:"avatar_url"`
	Visibility Visibility `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:ProfileID" json:"posts,omitempty"`
}

// HandleString returns the handle or "" when unset.
func (p *Profile) HandleString() string {
	if p.Handle == nil {
		return ""
	}
	return *p.Handle
}
