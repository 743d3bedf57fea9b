package models

import "time"

// UserPreferences is one-to-one with a user and created lazily with defaults
// on first read.
type UserPreferences struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	DisplayName      *string   `gorm:"size:100" json:"display_name"`
	DefaultView      string    `gorm:"size:10;not null;default:'list'" json:"default_view"`
	DefaultSort      string    `gorm:"size:20;not null;default:'created_at'" json:"default_sort"`
	DefaultSortOrder string    `gorm:"size:4;not null;default:'desc'" json:"default_sort_order"`
	ItemsPerPage     int       `gorm:"not null;default:20" json:"items_per_page"`
}

func (UserPreferences) TableName() string { return "user_preferences" }
