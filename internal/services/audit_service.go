package services

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
)

// AuditService writes and reads the admin_logs table.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func newEntry(actor Actor, action, resource, resourceID string, details map[string]interface{}) models.AdminLog {
	entry := models.AdminLog{
		AdminUsername: actor.Username,
		Action:        action,
		Resource:      resource,
		ResourceID:    resourceID,
		IPAddress:     actor.IP,
	}
	if actor.AdminID != uuid.Nil {
		id := actor.AdminID
		entry.AdminID = &id
	}
	if len(details) > 0 {
		if b, err := json.Marshal(details); err == nil {
			entry.Details = b
		}
	}
	return entry
}

// RecordTx writes an audit row inside the caller's transaction.
func (s *AuditService) RecordTx(tx *gorm.DB, actor Actor, action, resource, resourceID string, details map[string]interface{}) error {
	entry := newEntry(actor, action, resource, resourceID, details)
	return tx.Create(&entry).Error
}

// Record writes an audit row. Failures are logged and swallowed.
func (s *AuditService) Record(actor Actor, action, resource, resourceID string, details map[string]interface{}) {
	entry := newEntry(actor, action, resource, resourceID, details)
	if err := s.db.Create(&entry).Error; err != nil {
		slog.Warn("audit log write failed", "action", action, "resource", resource, "resource_id", resourceID, "error", err)
	}
}

func (s *AuditService) List(f dto.LogFilter, pageSize int) ([]models.AdminLog, Page, error) {
	query := s.db.Model(&models.AdminLog{})
	if f.Admin != "" {
		query = query.Where("LOWER(admin_username) LIKE ? ESCAPE '!'", likePattern(f.Admin))
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.Resource != "" {
		query = query.Where("resource = ?", f.Resource)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, Page{}, err
	}
	page := NewPage(f.Page, pageSize, total)

	var logs []models.AdminLog
	err := query.Order("created_at DESC").Limit(page.Size).Offset(page.Offset()).Find(&logs).Error
	return logs, page, err
}

func (s *AuditService) Recent(limit int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// Actions returns the distinct action names present in the log.
func (s *AuditService) Actions() ([]string, error) {
	var actions []string
	err := s.db.Model(&models.AdminLog{}).Distinct("action").Order("action").Pluck("action", &actions).Error
	return actions, err
}

// RecentErrors returns the newest application errors stored by the log sink.
func (s *AuditService) RecentErrors(limit int) ([]models.SystemLog, error) {
	var logs []models.SystemLog
	err := s.db.Order("timestamp DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
