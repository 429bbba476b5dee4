package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createAdmin(t, "viewer1", "viewer1@agency.test", "viewpass", "viewer", true)
	env.createAdmin(t, "gone", "gone@agency.test", "gonepass", "viewer", false)

	t.Run("username", func(t *testing.T) {
		admin, token, err := env.auth.Login(&dto.LoginRequest{Login: "viewer1", Password: "viewpass"}, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, "viewer1", admin.Username)
		require.NotNil(t, admin.LastLoginAt)

		parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
			return []byte(env.cfg.SessionSecret), nil
		})
		require.NoError(t, err)
		claims := parsed.Claims.(jwt.MapClaims)
		assert.Equal(t, admin.ID.String(), claims["sub"])
		assert.Equal(t, "viewer", claims["role"])
		assert.EqualValues(t, 0, claims["sv"])

		assert.EqualValues(t, 1, env.count(t, &models.AdminLog{}, "action = ? AND admin_username = ?", "login", "viewer1"))
	})

	t.Run("email", func(t *testing.T) {
		_, _, err := env.auth.Login(&dto.LoginRequest{Login: "Viewer1@Agency.test", Password: "viewpass"}, "")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := env.auth.Login(&dto.LoginRequest{Login: "viewer1", Password: "nope"}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := env.auth.Login(&dto.LoginRequest{Login: "nobody", Password: "viewpass"}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := env.auth.Login(&dto.LoginRequest{}, "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive", func(t *testing.T) {
		_, _, err := env.auth.Login(&dto.LoginRequest{Login: "gone", Password: "gonepass"}, "")
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})
}

func TestGetActiveAdmin(t *testing.T) {
	env := newTestEnv(t)
	gone := env.createAdmin(t, "gone", "gone@agency.test", "gonepass", "viewer", false)

	admin, err := env.auth.GetActiveAdmin(env.actor.AdminID)
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)

	_, err = env.auth.GetActiveAdmin(gone.ID)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	err := env.auth.ChangePassword(env.actor, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "current_password", verr.Field)

	err = env.auth.ChangePassword(env.actor, &dto.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "short", ConfirmPassword: "short",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	err = env.auth.ChangePassword(env.actor, &dto.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "newsecret", ConfirmPassword: "other",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "confirm_password", verr.Field)

	require.NoError(t, env.auth.ChangePassword(env.actor, &dto.ChangePasswordRequest{
		CurrentPassword: "secret1", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	}))

	_, _, err = env.auth.Login(&dto.LoginRequest{Login: "root", Password: "secret1"}, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	admin, token, err := env.auth.Login(&dto.LoginRequest{Login: "root", Password: "newsecret"}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, admin.SessionVersion)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(env.cfg.SessionSecret), nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, parsed.Claims.(jwt.MapClaims)["sv"])
}
