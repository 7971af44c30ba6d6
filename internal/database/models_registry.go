package database

import "howudoin/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Friendship{},
		&models.Group{},
		&models.GroupMembership{},
		&models.Message{},
		&models.GroupMessage{},
	}
}
