package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Club struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null;uniqueIndex" json:"name"`
	Country      string    `gorm:"size:80;index" json:"country"`
	League       string    `gorm:"size:120" json:"league"`
	City         string    `gorm:"size:120" json:"city"`
	Stadium      string    `gorm:"size:150" json:"stadium"`
	FoundedYear  int       `json:"founded_year"`
	Website      string    `gorm:"size:255" json:"website"`
	ContactEmail string    `gorm:"size:255" json:"contact_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Club) TableName() string {
	return "clubs"
}
