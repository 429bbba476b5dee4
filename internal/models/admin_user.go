package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminUser is a staff account. Permissions holds the JSON permission set.
type AdminUser struct {
	ID          uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Username    string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email       string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	FullName    string         `gorm:"size:150" json:"full_name"`
	Role        string         `gorm:"size:30;not null" json:"role"`
	Permissions datatypes.JSON `json:"permissions"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// SessionVersion is bumped on password changes; tokens carrying an
	// older value are rejected.
	SessionVersion int `gorm:"not null;default:0" json:"-"`
}

func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (AdminUser) TableName() string {
	return "admin_users"
}
