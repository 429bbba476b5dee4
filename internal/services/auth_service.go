package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService authenticates staff accounts and issues session tokens.
type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *AuditService
}

func NewAuthService(db *gorm.DB, cfg *config.Config, audit *AuditService) *AuthService {
	return &AuthService{db: db, cfg: cfg, audit: audit}
}

// Login checks credentials by username or email and returns the admin with a
// signed session token.
func (s *AuthService) Login(req *dto.LoginRequest, ip string) (*models.AdminUser, string, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	var admin models.AdminUser
	if err := s.db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !admin.Active {
		return nil, "", ErrAccountDisabled
	}

	now := time.Now().UTC()
	if err := s.db.Model(&admin).Update("last_login_at", now).Error; err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}
	admin.LastLoginAt = &now

	token, err := s.GenerateToken(&admin)
	if err != nil {
		return nil, "", err
	}

	s.audit.Record(Actor{AdminID: admin.ID, Username: admin.Username, IP: ip}, "login", "admins", admin.ID.String(), nil)
	return &admin, token, nil
}

func (s *AuthService) Logout(actor Actor) {
	s.audit.Record(actor, "logout", "admins", actor.AdminID.String(), nil)
}

// GenerateToken signs the session claims for an admin.
func (s *AuthService) GenerateToken(admin *models.AdminUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      admin.ID.String(),
		"username": admin.Username,
		"role":     admin.Role,
		"iat":      now.Unix(),
		"sv":       admin.SessionVersion,
		"exp":      now.Add(s.cfg.SessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// GetActiveAdmin loads an admin by id; inactive accounts are reported as
// ErrAccountDisabled.
func (s *AuthService) GetActiveAdmin(id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	if !admin.Active {
		return nil, ErrAccountDisabled
	}
	return &admin, nil
}

func (s *AuthService) ChangePassword(actor Actor, req *dto.ChangePasswordRequest) error {
	var admin models.AdminUser
	if err := s.db.First(&admin, "id = ?", actor.AdminID).Error; err != nil {
		return ErrAdminNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)); err != nil {
		return invalid("current_password", "current password is incorrect")
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return invalid("confirm_password", "passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	err = s.db.Model(&admin).Updates(map[string]interface{}{
		"password":        string(hash),
		"session_version": gorm.Expr("session_version + 1"),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.audit.Record(actor, "change_password", "admins", admin.ID.String(), nil)
	return nil
}
