package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlayerNote struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	PlayerID      uuid.UUID `gorm:"type:char(36);not null;index" json:"player_id"`
	Player        User      `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"-"`
	AdminID       uuid.UUID `gorm:"type:char(36);not null" json:"admin_id"`
	AdminUsername string    `gorm:"size:50" json:"admin_username"`
	Body          string    `gorm:"type:text;not null" json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

func (n *PlayerNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (PlayerNote) TableName() string {
	return "player_notes"
}
