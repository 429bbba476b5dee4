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

var playerSortColumns = map[string]string{
	"name":     "users.full_name",
	"age":      "player_profiles.date_of_birth",
	"country":  "users.country",
	"position": "player_profiles.position",
	"created":  "users.created_at",
}

// PlayerService manages player accounts and their profiles.
type PlayerService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

func NewPlayerService(db *gorm.DB, audit *AuditService) *PlayerService {
	return &PlayerService{db: db, audit: audit, now: time.Now}
}

func (s *PlayerService) filtered(f *dto.PlayerFilter) *gorm.DB {
	query := s.db.Model(&models.User{}).
		Joins("JOIN player_profiles ON player_profiles.user_id = users.id").
		Where("users.role = ?", models.RolePlayer)

	if f.Search != "" {
		p := likePattern(f.Search)
		query = query.Where("(LOWER(users.full_name) LIKE ? ESCAPE '!' OR LOWER(users.username) LIKE ? ESCAPE '!' OR LOWER(users.email) LIKE ? ESCAPE '!')", p, p, p)
	}
	if f.Country != "" {
		query = query.Where("users.country = ?", f.Country)
	}
	if f.Position != "" {
		query = query.Where("player_profiles.position = ?", f.Position)
	}

	now := s.now().UTC()
	if f.MinAge > 0 {
		// born on or before today minus MinAge years
		query = query.Where("player_profiles.date_of_birth <= ?", now.AddDate(-f.MinAge, 0, 0))
	}
	if f.MaxAge > 0 {
		// born after today minus MaxAge+1 years
		query = query.Where("player_profiles.date_of_birth > ?", now.AddDate(-(f.MaxAge+1), 0, 0))
	}
	return query
}

func playerOrder(f *dto.PlayerFilter) string {
	col, ok := playerSortColumns[f.Sort]
	if !ok {
		return "users.full_name ASC"
	}
	desc := strings.EqualFold(f.Dir, "desc")
	// a larger age is an earlier birth date
	if f.Sort == "age" {
		desc = !desc
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

// List returns one page of players matching the filter.
func (s *PlayerService) List(f dto.PlayerFilter, pageSize int) ([]models.User, Page, error) {
	var total int64
	if err := s.filtered(&f).Count(&total).Error; err != nil {
		return nil, Page{}, fmt.Errorf("failed to count players: %w", err)
	}
	page := NewPage(f.Page, pageSize, total)

	var players []models.User
	err := s.filtered(&f).
		Select("users.*").
		Preload("Profile").
		Preload("Profile.CurrentClub").
		Order(playerOrder(&f)).
		Limit(page.Size).
		Offset(page.Offset()).
		Find(&players).Error
	if err != nil {
		return nil, Page{}, fmt.Errorf("failed to list players: %w", err)
	}
	return players, page, nil
}

// All returns every player matching the filter, for exports.
func (s *PlayerService) All(f dto.PlayerFilter) ([]models.User, error) {
	var players []models.User
	err := s.filtered(&f).
		Select("users.*").
		Preload("Profile").
		Preload("Profile.CurrentClub").
		Order(playerOrder(&f)).
		Find(&players).Error
	return players, err
}

// Options returns id/name pairs for select boxes.
func (s *PlayerService) Options() ([]models.User, error) {
	var players []models.User
	err := s.db.Select("id", "full_name", "username").
		Where("role = ?", models.RolePlayer).
		Order("full_name").
		Find(&players).Error
	return players, err
}

func (s *PlayerService) Countries() ([]string, error) {
	var countries []string
	err := s.db.Model(&models.User{}).
		Where("role = ? AND country <> ''", models.RolePlayer).
		Distinct("country").
		Order("country").
		Pluck("country", &countries).Error
	return countries, err
}

func (s *PlayerService) Get(id uuid.UUID) (*models.User, error) {
	var player models.User
	err := s.db.Preload("Profile").Preload("Profile.CurrentClub").
		Where("role = ?", models.RolePlayer).
		First(&player, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

func (s *PlayerService) buildProfile(form *dto.PlayerForm) (models.PlayerProfile, error) {
	var p models.PlayerProfile

	if !models.ValidPosition(form.Position) {
		return p, invalid("position", "position must be one of %s", strings.Join(models.Positions, ", "))
	}
	dob, err := parseDate("date_of_birth", form.DateOfBirth)
	if err != nil {
		return p, err
	}
	if dob == nil {
		return p, invalid("date_of_birth", "date of birth is required")
	}
	if !dob.Before(s.now()) {
		return p, invalid("date_of_birth", "date of birth must be in the past")
	}
	if form.HeightCm != 0 && (form.HeightCm < 100 || form.HeightCm > 250) {
		return p, invalid("height_cm", "height must be between 100 and 250 cm")
	}
	if form.WeightKg != 0 && (form.WeightKg < 30 || form.WeightKg > 150) {
		return p, invalid("weight_kg", "weight must be between 30 and 150 kg")
	}
	if form.PreferredFoot != "" && !oneOf(form.PreferredFoot, models.PreferredFeet) {
		return p, invalid("preferred_foot", "preferred foot must be left, right or both")
	}
	if form.MarketValue < 0 {
		return p, invalid("market_value", "market value cannot be negative")
	}
	clubID, err := parseOptionalUUID("current_club_id", form.CurrentClubID)
	if err != nil {
		return p, err
	}

	p = models.PlayerProfile{
		Position:      form.Position,
		DateOfBirth:   *dob,
		HeightCm:      form.HeightCm,
		WeightKg:      form.WeightKg,
		PreferredFoot: form.PreferredFoot,
		CurrentClubID: clubID,
		MarketValue:   form.MarketValue,
		Bio:           strings.TrimSpace(form.Bio),
	}
	return p, nil
}

func ensureClubExists(tx *gorm.DB, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Club{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrClubNotFound
	}
	return nil
}

// Create writes the user, the profile and the audit row in one transaction.
func (s *PlayerService) Create(actor Actor, form *dto.PlayerForm) (*models.User, error) {
	acct := normalizeAccount(form.Account())
	if err := validateAccount(acct, true); err != nil {
		return nil, err
	}
	profile, err := s.buildProfile(form)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(acct.Password)
	if err != nil {
		return nil, err
	}

	user := newUser(acct, models.RolePlayer, hash)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAccountUnique(tx, acct.Username, acct.Email, uuid.Nil); err != nil {
			return err
		}
		if err := ensureClubExists(tx, profile.CurrentClubID); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile.UserID = user.ID
		if err := tx.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create player profile: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "create", "players", user.ID.String(), map[string]interface{}{
			"username": user.Username,
			"position": profile.Position,
		})
	})
	if err != nil {
		return nil, err
	}

	user.Profile = &profile
	return &user, nil
}

func (s *PlayerService) Update(actor Actor, id uuid.UUID, form *dto.PlayerForm) (*models.User, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	acct := normalizeAccount(form.Account())
	if err := validateAccount(acct, false); err != nil {
		return nil, err
	}
	profile, err := s.buildProfile(form)
	if err != nil {
		return nil, err
	}
	userUpdates, err := accountUpdates(acct)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAccountUnique(tx, acct.Username, acct.Email, id); err != nil {
			return err
		}
		if err := ensureClubExists(tx, profile.CurrentClubID); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", id).Updates(userUpdates).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		err := tx.Model(&models.PlayerProfile{}).Where("user_id = ?", id).Updates(map[string]interface{}{
			"position":        profile.Position,
			"date_of_birth":   profile.DateOfBirth,
			"height_cm":       profile.HeightCm,
			"weight_kg":       profile.WeightKg,
			"preferred_foot":  profile.PreferredFoot,
			"current_club_id": profile.CurrentClubID,
			"market_value":    profile.MarketValue,
			"bio":             profile.Bio,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update player profile: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "update", "players", id.String(), map[string]interface{}{
			"username":         acct.Username,
			"password_changed": acct.Password != "",
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes the player and every row that depends on it.
func (s *PlayerService) Delete(actor Actor, id uuid.UUID) error {
	player, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("player_id = ?", id).Delete(&models.PlayerNote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", id).Delete(&models.TransferOpportunity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("player_id = ?", id).Delete(&models.ScoutingReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PlayerProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete player: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "delete", "players", id.String(), map[string]interface{}{
			"username": player.Username,
		})
	})
}
