package database

import "athlos/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Post{},
		&models.Like{},
		&models.SavedPost{},
		&models.Comment{},
		&models.Follow{},
		&models.SportSettings{},
	}
}
