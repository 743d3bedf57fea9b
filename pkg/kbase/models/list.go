package models

import "time"

// List is a user-defined named collection of content items
type List struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `gorm:"size:500" json:"description"`
	Color       string    `gorm:"size:7;not null;default:'#6366f1'" json:"color"`
	Icon        string    `gorm:"size:50;not null;default:'folder'" json:"icon"`

	// Relationships
	Contents []Content `gorm:"many2many:content_lists;" json:"contents,omitempty"`
}
