package services

import (
	"testing"

	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminForm(username, role string, perms ...string) *dto.AdminForm {
	return &dto.AdminForm{
		Username:    username,
		Email:       username + "@agency.test",
		Password:    "secret1",
		FullName:    "Staff " + username,
		Role:        role,
		Active:      true,
		Permissions: perms,
	}
}

func TestAdminCreateUsesRolePresetWhenNoBoxesTicked(t *testing.T) {
	env := newTestEnv(t)

	admin, err := env.admins.Create(env.actor, adminForm("viewer2", "viewer"))
	require.NoError(t, err)

	stored, err := env.admins.Permissions(admin)
	require.NoError(t, err)
	assert.True(t, stored.Empty())

	eff := env.admins.roles.Effective(admin.Role, stored)
	assert.True(t, eff.Can(permissions.Players, permissions.View))
	assert.False(t, eff.Can(permissions.Players, permissions.Delete))
}

func TestAdminCreateWithExplicitPermissions(t *testing.T) {
	env := newTestEnv(t)

	admin, err := env.admins.Create(env.actor, adminForm("editor", "viewer", "reports:approve", "reports:view", "junk"))
	require.NoError(t, err)

	stored, err := env.admins.Permissions(admin)
	require.NoError(t, err)
	eff := env.admins.roles.Effective(admin.Role, stored)
	assert.True(t, eff.Can(permissions.Reports, permissions.Approve))
	assert.True(t, eff.Can(permissions.Reports, permissions.View))
	assert.False(t, eff.Can(permissions.Players, permissions.View), "explicit set replaces the preset")
}

func TestAdminCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	form := adminForm("shorty", "viewer")
	form.Password = "12345"
	_, err := env.admins.Create(env.actor, form)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	_, err = env.admins.Create(env.actor, adminForm("ghost", "wizard"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "role", verr.Field)

	_, err = env.admins.Create(env.actor, adminForm("root", "viewer"))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	form = adminForm("other", "viewer")
	form.Email = "root@agency.test"
	_, err = env.admins.Create(env.actor, form)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAdminSelfProtection(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.admins.Delete(env.actor, env.actor.AdminID), ErrSelfModification)

	form := adminForm("root", permissions.RoleSuperAdmin)
	form.Email = "root@agency.test"
	form.Password = ""
	form.Active = false
	_, err := env.admins.Update(env.actor, env.actor.AdminID, form)
	assert.ErrorIs(t, err, ErrSelfModification)

	self, err := env.admins.Get(env.actor.AdminID)
	require.NoError(t, err)
	assert.True(t, self.Active)
}

func TestAdminUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	admin, err := env.admins.Create(env.actor, adminForm("staff", "viewer"))
	require.NoError(t, err)

	form := adminForm("staff", "admin")
	form.Password = ""
	form.Active = false
	updated, err := env.admins.Update(env.actor, admin.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	assert.False(t, updated.Active)
	assert.Equal(t, admin.Password, updated.Password)
	assert.Zero(t, updated.SessionVersion)

	// a reset password invalidates the account's existing sessions
	form.Password = "newsecret"
	updated, err = env.admins.Update(env.actor, admin.ID, form)
	require.NoError(t, err)
	assert.NotEqual(t, admin.Password, updated.Password)
	assert.Equal(t, 1, updated.SessionVersion)

	require.NoError(t, env.admins.Delete(env.actor, admin.ID))
	_, err = env.admins.Get(admin.ID)
	assert.ErrorIs(t, err, ErrAdminNotFound)
	assert.EqualValues(t, 1, env.count(t, &models.AdminLog{}, "action = ? AND resource = ?", "delete", "admins"))
}
