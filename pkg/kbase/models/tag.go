package models

import "time"

// Tag is a user-scoped label. Names are stored trimmed and lower-cased;
// uniqueness is per (user_id, name). Tags outlive their associations and are
// only removed on full account deletion.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"user_id"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_tags_user_name" json:"name"`

	// Relationships
	Contents []Content `gorm:"many2many:content_tags;" json:"contents,omitempty"`
}
