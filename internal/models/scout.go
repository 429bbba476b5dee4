package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Scout struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:char(36);not null;uniqueIndex" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Region          string    `gorm:"size:100;index" json:"region"`
	Specialization  string    `gorm:"size:100" json:"specialization"`
	ExperienceYears int       `json:"experience_years"`
	Verified        bool      `gorm:"default:false" json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s *Scout) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Scout) TableName() string {
	return "scouts"
}
