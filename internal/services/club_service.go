package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
)

type ClubService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewClubService(db *gorm.DB, audit *AuditService) *ClubService {
	return &ClubService{db: db, audit: audit}
}

func (s *ClubService) filtered(f *dto.ClubFilter) *gorm.DB {
	query := s.db.Model(&models.Club{})
	if f.Search != "" {
		p := likePattern(f.Search)
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(league) LIKE ? ESCAPE '!' OR LOWER(city) LIKE ? ESCAPE '!')", p, p, p)
	}
	if f.Country != "" {
		query = query.Where("country = ?", f.Country)
	}
	return query
}

func (s *ClubService) List(f dto.ClubFilter, pageSize int) ([]models.Club, Page, error) {
	var total int64
	if err := s.filtered(&f).Count(&total).Error; err != nil {
		return nil, Page{}, fmt.Errorf("failed to count clubs: %w", err)
	}
	page := NewPage(f.Page, pageSize, total)

	var clubs []models.Club
	err := s.filtered(&f).Order("name ASC").Limit(page.Size).Offset(page.Offset()).Find(&clubs).Error
	if err != nil {
		return nil, Page{}, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, page, nil
}

func (s *ClubService) Options() ([]models.Club, error) {
	var clubs []models.Club
	err := s.db.Select("id", "name").Order("name").Find(&clubs).Error
	return clubs, err
}

func (s *ClubService) Countries() ([]string, error) {
	var countries []string
	err := s.db.Model(&models.Club{}).
		Where("country <> ''").
		Distinct("country").
		Order("country").
		Pluck("country", &countries).Error
	return countries, err
}

func (s *ClubService) Get(id uuid.UUID) (*models.Club, error) {
	var club models.Club
	if err := s.db.First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &club, nil
}

// Squad returns the players currently registered with the club.
func (s *ClubService) Squad(id uuid.UUID) ([]models.User, error) {
	var players []models.User
	err := s.db.Model(&models.User{}).
		Joins("JOIN player_profiles ON player_profiles.user_id = users.id").
		Where("player_profiles.current_club_id = ?", id).
		Select("users.*").
		Preload("Profile").
		Order("users.full_name").
		Find(&players).Error
	return players, err
}

func (s *ClubService) validate(form *dto.ClubForm) (models.Club, error) {
	club := models.Club{
		Name:         strings.TrimSpace(form.Name),
		Country:      strings.TrimSpace(form.Country),
		League:       strings.TrimSpace(form.League),
		City:         strings.TrimSpace(form.City),
		Stadium:      strings.TrimSpace(form.Stadium),
		FoundedYear:  form.FoundedYear,
		Website:      strings.TrimSpace(form.Website),
		ContactEmail: strings.ToLower(strings.TrimSpace(form.ContactEmail)),
	}
	if club.Name == "" {
		return club, invalid("name", "club name is required")
	}
	if club.Country == "" {
		return club, invalid("country", "country is required")
	}
	if club.FoundedYear != 0 && (club.FoundedYear < 1850 || club.FoundedYear > time.Now().Year()) {
		return club, invalid("founded_year", "founded year must be between 1850 and %d", time.Now().Year())
	}
	if club.ContactEmail != "" {
		if err := validateEmail(club.ContactEmail); err != nil {
			return club, invalid("contact_email", "contact email is not valid")
		}
	}
	return club, nil
}

func ensureClubNameUnique(tx *gorm.DB, name string, exclude uuid.UUID) error {
	var count int64
	q := tx.Model(&models.Club{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrClubNameTaken
	}
	return nil
}

func (s *ClubService) Create(actor Actor, form *dto.ClubForm) (*models.Club, error) {
	club, err := s.validate(form)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureClubNameUnique(tx, club.Name, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&club).Error; err != nil {
			return fmt.Errorf("failed to create club: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "create", "clubs", club.ID.String(), map[string]interface{}{"name": club.Name})
	})
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (s *ClubService) Update(actor Actor, id uuid.UUID, form *dto.ClubForm) (*models.Club, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	club, err := s.validate(form)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureClubNameUnique(tx, club.Name, id); err != nil {
			return err
		}
		err := tx.Model(&models.Club{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":          club.Name,
			"country":       club.Country,
			"league":        club.League,
			"city":          club.City,
			"stadium":       club.Stadium,
			"founded_year":  club.FoundedYear,
			"website":       club.Website,
			"contact_email": club.ContactEmail,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update club: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "update", "clubs", id.String(), map[string]interface{}{"name": club.Name})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes the club and its transfer opportunities and detaches
// players registered with it.
func (s *ClubService) Delete(actor Actor, id uuid.UUID) error {
	club, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("club_id = ?", id).Delete(&models.TransferOpportunity{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.PlayerProfile{}).Where("current_club_id = ?", id).Update("current_club_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Club{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete club: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "delete", "clubs", id.String(), map[string]interface{}{"name": club.Name})
	})
}
