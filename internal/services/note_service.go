package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
)

const maxNoteLength = 5000

type NoteService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewNoteService(db *gorm.DB, audit *AuditService) *NoteService {
	return &NoteService{db: db, audit: audit}
}

func (s *NoteService) ForPlayer(playerID uuid.UUID) ([]models.PlayerNote, error) {
	var notes []models.PlayerNote
	err := s.db.Where("player_id = ?", playerID).Order("created_at DESC").Find(&notes).Error
	return notes, err
}

func (s *NoteService) Add(actor Actor, playerID uuid.UUID, body string) (*models.PlayerNote, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, invalid("body", "note cannot be empty")
	}
	if len(body) > maxNoteLength {
		return nil, invalid("body", "note cannot exceed %d characters", maxNoteLength)
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ? AND role = ?", playerID, models.RolePlayer).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPlayerNotFound
	}

	note := models.PlayerNote{
		PlayerID:      playerID,
		AdminID:       actor.AdminID,
		AdminUsername: actor.Username,
		Body:          body,
	}
	if err := s.db.Omit("Player").Create(&note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.audit.Record(actor, "create", "notes", note.ID.String(), map[string]interface{}{
		"player_id": playerID.String(),
	})
	return &note, nil
}

// Delete removes a note that belongs to the given player.
func (s *NoteService) Delete(actor Actor, playerID, noteID uuid.UUID) error {
	var note models.PlayerNote
	if err := s.db.Where("player_id = ?", playerID).First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}
	if err := s.db.Delete(&models.PlayerNote{}, "id = ?", noteID).Error; err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.audit.Record(actor, "delete", "notes", noteID.String(), map[string]interface{}{
		"player_id": playerID.String(),
	})
	return nil
}
