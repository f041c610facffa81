package models

import (
	"time"

	"github.com/google/uuid"
)

// FollowStatus represents the status of a follow request.
type FollowStatus string

const (
	// FollowStatusPending indicates a follow request awaiting a decision.
	FollowStatusPending FollowStatus = "pending"
	// FollowStatusAccepted indicates an accepted follow.
	FollowStatusAccepted FollowStatus = "accepted"
	// FollowStatusRejected indicates a rejected follow request.
	FollowStatusRejected FollowStatus = "rejected"
)

// Follow represents a directed follow relationship between two profiles.
// The (follower, following) pair is unique. Self-follows are rejected at the
// service layer before a row is ever created.
type Follow struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	FollowerID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowingID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair" json:"following_id"`
	Status      FollowStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Follower  Profile `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"follower,omitempty"`
	Following Profile `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"following,omitempty"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
