package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SportSettings stores per-sport configuration for a profile as a schema-free
// JSONB blob keyed by an open-ended sport key ("running", "cycling", ...),
// rather than a fixed column per sport.
type SportSettings struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProfileID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_profile_sport" json:"profile_id"`
	SportKey  string          `gorm:"size:50;not null;uniqueIndex:idx_profile_sport" json:"sport_key"`
	Settings  json.RawMessage `gorm:"type:jsonb" json:"settings"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM.
func (SportSettings) TableName() string {
	return "sport_settings"
}
