package models

import "time"

// User represents an account in the system
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `gorm:"not null" json:"name"`
}

// AuthorizedUser is the registration allow-list. Only emails present here may
// create an account.
type AuthorizedUser struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
}

func (AuthorizedUser) TableName() string { return "authorized_users" }
