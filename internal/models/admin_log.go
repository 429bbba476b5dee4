package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminLog is one audit entry. AdminID is kept without a foreign key so
// entries outlive the account that wrote them.
type AdminLog struct {
	ID            uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	AdminID       *uuid.UUID     `gorm:"type:char(36);index" json:"admin_id"`
	AdminUsername string         `gorm:"size:50" json:"admin_username"`
	Action        string         `gorm:"size:50;not null;index" json:"action"`
	Resource      string         `gorm:"size:50;not null;index" json:"resource"`
	ResourceID    string         `gorm:"size:36" json:"resource_id"`
	Details       datatypes.JSON `json:"details"`
	IPAddress     string         `gorm:"size:64" json:"ip_address"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (l *AdminLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (AdminLog) TableName() string {
	return "admin_logs"
}
