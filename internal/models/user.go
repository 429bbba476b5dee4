package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RolePlayer = "player"
	RoleScout  = "scout"
	RoleClub   = "club"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User holds the login identity shared by players, scouts and clubs.
type User struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	Username  string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email     string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"size:20;not null;index" json:"role"`
	FullName  string         `gorm:"size:150;not null" json:"full_name"`
	Country   string         `gorm:"size:80;index" json:"country"`
	Phone     string         `gorm:"size:40" json:"phone"`
	Status    string         `gorm:"size:20;not null;default:'active'" json:"status"`
	Profile   *PlayerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
