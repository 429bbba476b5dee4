package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/scoutline/agency-admin/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SettingAgencyName   = "agency_name"
	SettingPageSize     = "page_size"
	SettingNoticeBanner = "notice_banner"
)

type settingDefault struct {
	Key   string
	Value string
	Type  string
}

var settingDefaults = []settingDefault{
	{SettingAgencyName, "Scouting Agency", "string"},
	{SettingPageSize, strconv.Itoa(DefaultPageSize), "int"},
	{SettingNoticeBanner, "", "string"},
}

// SettingsService stores agency-wide settings and caches them in memory.
type SettingsService struct {
	db    *gorm.DB
	audit *AuditService

	mu    sync.RWMutex
	cache map[string]string
}

func NewSettingsService(db *gorm.DB, audit *AuditService) *SettingsService {
	return &SettingsService{db: db, audit: audit}
}

// SeedDefaults inserts missing defaults without touching existing values.
func (s *SettingsService) SeedDefaults() error {
	for _, d := range settingDefaults {
		setting := models.Setting{Key: d.Key, Value: d.Value, Type: d.Type}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", d.Key, err)
		}
	}
	return s.reload()
}

func (s *SettingsService) reload() error {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return err
	}
	cache := make(map[string]string, len(settings))
	for _, st := range settings {
		cache[st.Key] = st.Value
	}
	s.mu.Lock()
	s.cache = cache
	s.mu.Unlock()
	return nil
}

func (s *SettingsService) value(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[key]
	return v, ok
}

func (s *SettingsService) GetString(key string) string {
	if v, ok := s.value(key); ok {
		return v
	}
	for _, d := range settingDefaults {
		if d.Key == key {
			return d.Value
		}
	}
	return ""
}

func (s *SettingsService) GetInt(key string, fallback int) int {
	v, ok := s.value(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *SettingsService) AgencyName() string {
	return s.GetString(SettingAgencyName)
}

func (s *SettingsService) PageSize() int {
	return clampPageSize(s.GetInt(SettingPageSize, DefaultPageSize))
}

func (s *SettingsService) NoticeBanner() string {
	return s.GetString(SettingNoticeBanner)
}

func (s *SettingsService) All() ([]models.Setting, error) {
	var settings []models.Setting
	err := s.db.Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error
	return settings, err
}

// Update validates and stores the submitted values. Unknown keys are
// rejected.
func (s *SettingsService) Update(actor Actor, values map[string]string) error {
	normalized := make(map[string]string, len(values))
	for key, v := range values {
		v = strings.TrimSpace(v)
		switch key {
		case SettingAgencyName:
			if v == "" {
				return invalid(key, "agency name is required")
			}
		case SettingPageSize:
			n, err := strconv.Atoi(v)
			if err != nil {
				return invalid(key, "page size must be a number")
			}
			v = strconv.Itoa(clampPageSize(n))
		case SettingNoticeBanner:
		default:
			return invalid(key, "unknown setting %q", key)
		}
		normalized[key] = v
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for key, v := range normalized {
			// key is reserved in MySQL, so match on the primary key through the model
			result := tx.Model(&models.Setting{Key: key}).Update("value", v)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errors.New("setting " + key + " is missing; restart to seed defaults")
			}
		}
		details := make(map[string]interface{}, len(normalized))
		for k, v := range normalized {
			details[k] = v
		}
		return s.audit.RecordTx(tx, actor, "update", "settings", "", details)
	})
	if err != nil {
		return err
	}
	return s.reload()
}
