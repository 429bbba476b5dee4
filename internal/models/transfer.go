package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var TransferTypes = []string{"permanent", "loan", "free"}

var TransferStatuses = []string{"open", "negotiating", "agreed", "completed", "cancelled"}

type TransferOpportunity struct {
	ID        uuid.UUID  `gorm:"type:char(36);primaryKey" json:"id"`
	PlayerID  uuid.UUID  `gorm:"type:char(36);not null;index" json:"player_id"`
	Player    User       `gorm:"foreignKey:PlayerID;constraint:OnDelete:CASCADE" json:"player"`
	ClubID    uuid.UUID  `gorm:"type:char(36);not null;index" json:"club_id"`
	Club      Club       `gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE" json:"club"`
	Type      string     `gorm:"size:20;not null" json:"type"`
	Status    string     `gorm:"size:20;not null;default:'open';index" json:"status"`
	Fee       float64    `json:"fee"`
	Deadline  *time.Time `json:"deadline"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t *TransferOpportunity) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (TransferOpportunity) TableName() string {
	return "transfer_opportunities"
}
