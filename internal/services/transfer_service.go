package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
)

type TransferService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewTransferService(db *gorm.DB, audit *AuditService) *TransferService {
	return &TransferService{db: db, audit: audit}
}

func (s *TransferService) filtered(f *dto.TransferFilter) *gorm.DB {
	query := s.db.Model(&models.TransferOpportunity{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if id, err := uuid.Parse(f.ClubID); err == nil {
		query = query.Where("club_id = ?", id)
	}
	return query
}

func (s *TransferService) List(f dto.TransferFilter, pageSize int) ([]models.TransferOpportunity, Page, error) {
	var total int64
	if err := s.filtered(&f).Count(&total).Error; err != nil {
		return nil, Page{}, fmt.Errorf("failed to count transfers: %w", err)
	}
	page := NewPage(f.Page, pageSize, total)

	var transfers []models.TransferOpportunity
	err := s.filtered(&f).
		Preload("Player").
		Preload("Club").
		Order("created_at DESC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&transfers).Error
	if err != nil {
		return nil, Page{}, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, page, nil
}

func (s *TransferService) ForPlayer(playerID uuid.UUID) ([]models.TransferOpportunity, error) {
	var transfers []models.TransferOpportunity
	err := s.db.Preload("Club").
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Find(&transfers).Error
	return transfers, err
}

func (s *TransferService) Get(id uuid.UUID) (*models.TransferOpportunity, error) {
	var t models.TransferOpportunity
	if err := s.db.Preload("Player").Preload("Club").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *TransferService) build(form *dto.TransferForm) (models.TransferOpportunity, error) {
	var t models.TransferOpportunity

	playerID, err := parseRequiredUUID("player_id", form.PlayerID)
	if err != nil {
		return t, err
	}
	clubID, err := parseRequiredUUID("club_id", form.ClubID)
	if err != nil {
		return t, err
	}
	if !oneOf(form.Type, models.TransferTypes) {
		return t, invalid("type", "type must be one of %s", strings.Join(models.TransferTypes, ", "))
	}
	if form.Status == "" {
		form.Status = "open"
	}
	if !oneOf(form.Status, models.TransferStatuses) {
		return t, invalid("status", "status must be one of %s", strings.Join(models.TransferStatuses, ", "))
	}
	if form.Fee < 0 {
		return t, invalid("fee", "fee cannot be negative")
	}
	deadline, err := parseDate("deadline", form.Deadline)
	if err != nil {
		return t, err
	}

	t = models.TransferOpportunity{
		PlayerID: playerID,
		ClubID:   clubID,
		Type:     form.Type,
		Status:   form.Status,
		Fee:      form.Fee,
		Deadline: deadline,
		Notes:    strings.TrimSpace(form.Notes),
	}
	return t, nil
}

func ensureTransferRefs(tx *gorm.DB, playerID, clubID uuid.UUID) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ? AND role = ?", playerID, models.RolePlayer).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPlayerNotFound
	}
	return ensureClubExists(tx, &clubID)
}

func (s *TransferService) Create(actor Actor, form *dto.TransferForm) (*models.TransferOpportunity, error) {
	t, err := s.build(form)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureTransferRefs(tx, t.PlayerID, t.ClubID); err != nil {
			return err
		}
		if err := tx.Omit("Player", "Club").Create(&t).Error; err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "create", "transfers", t.ID.String(), map[string]interface{}{
			"type":   t.Type,
			"status": t.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TransferService) Update(actor Actor, id uuid.UUID, form *dto.TransferForm) (*models.TransferOpportunity, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	t, err := s.build(form)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureTransferRefs(tx, t.PlayerID, t.ClubID); err != nil {
			return err
		}
		err := tx.Model(&models.TransferOpportunity{}).Where("id = ?", id).Updates(map[string]interface{}{
			"player_id": t.PlayerID,
			"club_id":   t.ClubID,
			"type":      t.Type,
			"status":    t.Status,
			"fee":       t.Fee,
			"deadline":  t.Deadline,
			"notes":     t.Notes,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update transfer: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "update", "transfers", id.String(), map[string]interface{}{
			"status": t.Status,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *TransferService) Delete(actor Actor, id uuid.UUID) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.TransferOpportunity{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete transfer: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "delete", "transfers", id.String(), nil)
	})
}

// OpenCount counts opportunities that are not completed or cancelled.
func (s *TransferService) OpenCount() (int64, error) {
	var count int64
	err := s.db.Model(&models.TransferOpportunity{}).
		Where("status IN ?", []string{"open", "negotiating", "agreed"}).
		Count(&count).Error
	return count, err
}
