package models

import (
	"time"

	"gorm.io/datatypes"
)

type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrganizationID uint `gorm:"index;not null" json:"organization_id"`

	// nil = unassigned
	AgentID *uint  `gorm:"index" json:"agent_id"`
	Agent   *Agent `json:"agent,omitempty"`

	// nil = uncategorized
	CategoryID *uint `gorm:"index" json:"category_id"`

	FirstName string `gorm:"size:255;not null" json:"first_name"`
	LastName  string `gorm:"size:255;not null" json:"last_name"`
	Age       int    `json:"age"`

	// free-form contact details (phone, email, ...)
	Contact datatypes.JSON `gorm:"type:jsonb" json:"contact,omitempty"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrganizationID uint   `gorm:"index;not null" json:"organization_id"`
	Name           string `gorm:"size:255;not null" json:"name"`
}
