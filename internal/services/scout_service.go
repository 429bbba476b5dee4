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

// ScoutService manages scout accounts.
type ScoutService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewScoutService(db *gorm.DB, audit *AuditService) *ScoutService {
	return &ScoutService{db: db, audit: audit}
}

func (s *ScoutService) filtered(f *dto.ScoutFilter) *gorm.DB {
	query := s.db.Model(&models.Scout{}).
		Joins("JOIN users ON users.id = scouts.user_id")
	if f.Search != "" {
		p := likePattern(f.Search)
		query = query.Where("(LOWER(users.full_name) LIKE ? ESCAPE '!' OR LOWER(users.username) LIKE ? ESCAPE '!' OR LOWER(users.email) LIKE ? ESCAPE '!')", p, p, p)
	}
	if f.Region != "" {
		query = query.Where("scouts.region = ?", f.Region)
	}
	return query
}

func (s *ScoutService) List(f dto.ScoutFilter, pageSize int) ([]models.Scout, Page, error) {
	var total int64
	if err := s.filtered(&f).Count(&total).Error; err != nil {
		return nil, Page{}, fmt.Errorf("failed to count scouts: %w", err)
	}
	page := NewPage(f.Page, pageSize, total)

	var scouts []models.Scout
	err := s.filtered(&f).
		Select("scouts.*").
		Preload("User").
		Order("users.full_name ASC").
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&scouts).Error
	if err != nil {
		return nil, Page{}, fmt.Errorf("failed to list scouts: %w", err)
	}
	return scouts, page, nil
}

func (s *ScoutService) Options() ([]models.Scout, error) {
	var scouts []models.Scout
	err := s.db.Model(&models.Scout{}).
		Joins("JOIN users ON users.id = scouts.user_id").
		Select("scouts.*").
		Preload("User").
		Order("users.full_name").
		Find(&scouts).Error
	return scouts, err
}

func (s *ScoutService) Regions() ([]string, error) {
	var regions []string
	err := s.db.Model(&models.Scout{}).
		Where("region <> ''").
		Distinct("region").
		Order("region").
		Pluck("region", &regions).Error
	return regions, err
}

func (s *ScoutService) Get(id uuid.UUID) (*models.Scout, error) {
	var scout models.Scout
	if err := s.db.Preload("User").First(&scout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScoutNotFound
		}
		return nil, err
	}
	return &scout, nil
}

func validateScoutFields(form *dto.ScoutForm) error {
	if form.ExperienceYears < 0 || form.ExperienceYears > 60 {
		return invalid("experience_years", "experience must be between 0 and 60 years")
	}
	return nil
}

func (s *ScoutService) Create(actor Actor, form *dto.ScoutForm) (*models.Scout, error) {
	acct := normalizeAccount(form.Account())
	if err := validateAccount(acct, true); err != nil {
		return nil, err
	}
	if err := validateScoutFields(form); err != nil {
		return nil, err
	}
	hash, err := hashPassword(acct.Password)
	if err != nil {
		return nil, err
	}

	user := newUser(acct, models.RoleScout, hash)
	scout := models.Scout{
		ID:              uuid.New(),
		Region:          strings.TrimSpace(form.Region),
		Specialization:  strings.TrimSpace(form.Specialization),
		ExperienceYears: form.ExperienceYears,
		Verified:        form.Verified,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAccountUnique(tx, acct.Username, acct.Email, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		scout.UserID = user.ID
		if err := tx.Omit("User").Create(&scout).Error; err != nil {
			return fmt.Errorf("failed to create scout: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "create", "scouts", scout.ID.String(), map[string]interface{}{
			"username": user.Username,
		})
	})
	if err != nil {
		return nil, err
	}

	scout.User = user
	return &scout, nil
}

func (s *ScoutService) Update(actor Actor, id uuid.UUID, form *dto.ScoutForm) (*models.Scout, error) {
	scout, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	acct := normalizeAccount(form.Account())
	if err := validateAccount(acct, false); err != nil {
		return nil, err
	}
	if err := validateScoutFields(form); err != nil {
		return nil, err
	}
	userUpdates, err := accountUpdates(acct)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAccountUnique(tx, acct.Username, acct.Email, scout.UserID); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", scout.UserID).Updates(userUpdates).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		err := tx.Model(&models.Scout{}).Where("id = ?", id).Updates(map[string]interface{}{
			"region":           strings.TrimSpace(form.Region),
			"specialization":   strings.TrimSpace(form.Specialization),
			"experience_years": form.ExperienceYears,
			"verified":         form.Verified,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update scout: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "update", "scouts", id.String(), map[string]interface{}{
			"username": acct.Username,
			"verified": form.Verified,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes the scout, the scout's reports and the login account.
func (s *ScoutService) Delete(actor Actor, id uuid.UUID) error {
	scout, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scout_id = ?", id).Delete(&models.ScoutingReport{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Scout{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete scout: %w", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", scout.UserID).Error; err != nil {
			return fmt.Errorf("failed to delete scout account: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "delete", "scouts", id.String(), map[string]interface{}{
			"username": scout.User.Username,
		})
	})
}
