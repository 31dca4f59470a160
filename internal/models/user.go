package models

import (
	"time"

	"funnel/internal/scope"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string     `gorm:"size:255" json:"first_name"`
	LastName     string     `gorm:"size:255" json:"last_name"`
	PasswordHash []byte     `json:"-"`
	Role         scope.Role `gorm:"size:32;not null" json:"role"`
}

// Organization is the tenant root. Every Lead, Category and Agent
// hangs off exactly one organization, owned by one organisor user.
type Organization struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`
}

type Agent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID         uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User           User `json:"user"`
	OrganizationID uint `gorm:"index;not null" json:"organization_id"`
}
