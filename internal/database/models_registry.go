package database

import "chronogift/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Gift{},
		&models.AuditRecord{},
	}
}
