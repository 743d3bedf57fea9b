package models

import "gorm.io/gorm"

// AllModels returns all models for migration.
// Note: Content must be migrated before its metadata and association tables.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&AuthorizedUser{},
		&Content{},
		&VideoMetadata{},
		&ArticleMetadata{},
		&BookMetadata{},
		&Tag{},
		&List{},
		&ContentTag{},
		&ContentList{},
		&UserPreferences{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
