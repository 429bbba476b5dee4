package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

func normalizeAccount(a dto.AccountForm) dto.AccountForm {
	a.Username = strings.TrimSpace(a.Username)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.FullName = strings.TrimSpace(a.FullName)
	a.Country = strings.TrimSpace(a.Country)
	a.Phone = strings.TrimSpace(a.Phone)
	if a.Status == "" {
		a.Status = models.StatusActive
	}
	return a
}

// validateAccount checks the login fields. The password is only checked when
// required or when a new one was typed in.
func validateAccount(a dto.AccountForm, requirePassword bool) error {
	if !usernamePattern.MatchString(a.Username) {
		return invalid("username", "username must be 3-50 letters, digits, dots, dashes or underscores")
	}
	if err := validateEmail(a.Email); err != nil {
		return err
	}
	if requirePassword || a.Password != "" {
		if err := validatePassword(a.Password); err != nil {
			return err
		}
	}
	if a.FullName == "" {
		return invalid("full_name", "full name is required")
	}
	if a.Status != models.StatusActive && a.Status != models.StatusInactive {
		return invalid("status", "status must be active or inactive")
	}
	return nil
}

// ensureAccountUnique rejects a username or email already used by another user.
func ensureAccountUnique(tx *gorm.DB, username, email string, exclude uuid.UUID) error {
	var count int64
	q := tx.Model(&models.User{}).Where("username = ?", username)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrUsernameTaken
	}

	q = tx.Model(&models.User{}).Where("email = ?", email)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func newUser(a dto.AccountForm, role, hash string) models.User {
	return models.User{
		ID:       uuid.New(),
		Username: a.Username,
		Email:    a.Email,
		Password: hash,
		Role:     role,
		FullName: a.FullName,
		Country:  a.Country,
		Phone:    a.Phone,
		Status:   a.Status,
	}
}

// accountUpdates builds the column map for an edit; the password column is
// only touched when a new password was given.
func accountUpdates(a dto.AccountForm) (map[string]interface{}, error) {
	updates := map[string]interface{}{
		"username":  a.Username,
		"email":     a.Email,
		"full_name": a.FullName,
		"country":   a.Country,
		"phone":     a.Phone,
		"status":    a.Status,
	}
	if a.Password != "" {
		hash, err := hashPassword(a.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	return updates, nil
}
