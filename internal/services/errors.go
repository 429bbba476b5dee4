package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrScoutNotFound      = errors.New("scout not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrClubNameTaken      = errors.New("a club with this name already exists")
	ErrReportNotFound     = errors.New("report not found")
	ErrTransferNotFound   = errors.New("transfer opportunity not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrSelfModification   = errors.New("you cannot delete or deactivate your own account")
)

const MinPasswordLength = 6

// ValidationError describes a rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Actor identifies the admin performing a change, for audit rows.
type Actor struct {
	AdminID  uuid.UUID
	Username string
	IP       string
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return invalid("password", "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "email address is not valid")
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func parseOptionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalid(field, "%s is not a valid id", field)
	}
	return &id, nil
}

func parseRequiredUUID(field, raw string) (uuid.UUID, error) {
	id, err := parseOptionalUUID(field, raw)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, invalid(field, "%s is required", field)
	}
	return *id, nil
}

func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, invalid(field, "%s must be a date in YYYY-MM-DD format", field)
	}
	return &d, nil
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting on any
// supported driver. Queries pair it with ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
