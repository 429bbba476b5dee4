package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"gorm.io/gorm"
)

// AdminService manages staff accounts and their permission sets.
type AdminService struct {
	db    *gorm.DB
	roles *permissions.Registry
	audit *AuditService
}

func NewAdminService(db *gorm.DB, roles *permissions.Registry, audit *AuditService) *AdminService {
	return &AdminService{db: db, roles: roles, audit: audit}
}

func (s *AdminService) List() ([]models.AdminUser, error) {
	var admins []models.AdminUser
	err := s.db.Order("username").Find(&admins).Error
	return admins, err
}

func (s *AdminService) Get(id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// Permissions decodes the stored set of an admin.
func (s *AdminService) Permissions(admin *models.AdminUser) (permissions.Set, error) {
	return permissions.Parse(admin.Permissions)
}

// parsePermissionValues turns "resource:action" checkbox values into a set.
func parsePermissionValues(values []string) permissions.Set {
	set := permissions.Set{}
	for _, v := range values {
		res, act, ok := strings.Cut(v, ":")
		if !ok {
			continue
		}
		set.Grant(permissions.Resource(res), permissions.Action(act))
	}
	return set
}

func (s *AdminService) validate(form *dto.AdminForm, creating bool) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.FullName = strings.TrimSpace(form.FullName)

	if !usernamePattern.MatchString(form.Username) {
		return invalid("username", "username must be 3-50 letters, digits, dots, dashes or underscores")
	}
	if err := validateEmail(form.Email); err != nil {
		return err
	}
	if creating || form.Password != "" {
		if err := validatePassword(form.Password); err != nil {
			return err
		}
	}
	if !s.roles.Exists(form.Role) {
		return invalid("role", "unknown role %q", form.Role)
	}
	return nil
}

func ensureAdminUnique(tx *gorm.DB, username, email string, exclude uuid.UUID) error {
	var count int64
	q := tx.Model(&models.AdminUser{}).Where("username = ?", username)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUsernameTaken
	}
	q = tx.Model(&models.AdminUser{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func (s *AdminService) Create(actor Actor, form *dto.AdminForm) (*models.AdminUser, error) {
	if err := s.validate(form, true); err != nil {
		return nil, err
	}
	raw, err := parsePermissionValues(form.Permissions).Marshal()
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	admin := models.AdminUser{
		Username:    form.Username,
		Email:       form.Email,
		Password:    hash,
		FullName:    form.FullName,
		Role:        form.Role,
		Permissions: raw,
		Active:      true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAdminUnique(tx, admin.Username, admin.Email, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "create", "admins", admin.ID.String(), map[string]interface{}{
			"username": admin.Username,
			"role":     admin.Role,
		})
	})
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *AdminService) Update(actor Actor, id uuid.UUID, form *dto.AdminForm) (*models.AdminUser, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.validate(form, false); err != nil {
		return nil, err
	}
	if id == actor.AdminID && !form.Active {
		return nil, ErrSelfModification
	}
	raw, err := parsePermissionValues(form.Permissions).Marshal()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"username":    form.Username,
		"email":       form.Email,
		"full_name":   form.FullName,
		"role":        form.Role,
		"permissions": string(raw),
		"active":      form.Active,
	}
	if form.Password != "" {
		hash, err := hashPassword(form.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
		updates["session_version"] = gorm.Expr("session_version + 1")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureAdminUnique(tx, form.Username, form.Email, id); err != nil {
			return err
		}
		if err := tx.Model(&models.AdminUser{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update admin: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "update", "admins", id.String(), map[string]interface{}{
			"username":    form.Username,
			"role":        form.Role,
			"active":      form.Active,
			"permissions": string(raw),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *AdminService) Delete(actor Actor, id uuid.UUID) error {
	if id == actor.AdminID {
		return ErrSelfModification
	}
	admin, err := s.Get(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AdminUser{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete admin: %w", err)
		}
		return s.audit.RecordTx(tx, actor, "delete", "admins", id.String(), map[string]interface{}{
			"username": admin.Username,
		})
	})
}
