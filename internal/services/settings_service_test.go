package services

import (
	"testing"

	"github.com/scoutline/agency-admin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsSeedAndRead(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.settings.SeedDefaults())
	assert.Equal(t, "Scouting Agency", env.settings.AgencyName())
	assert.Equal(t, DefaultPageSize, env.settings.PageSize())
	assert.Empty(t, env.settings.NoticeBanner())

	require.NoError(t, env.db.Model(&models.Setting{Key: SettingAgencyName}).Update("value", "North Star Scouting").Error)
	require.NoError(t, env.settings.SeedDefaults(), "seeding twice keeps existing values")
	assert.Equal(t, "North Star Scouting", env.settings.AgencyName())

	all, err := env.settings.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSettingsUpdate(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.settings.SeedDefaults())

	require.NoError(t, env.settings.Update(env.actor, map[string]string{
		SettingAgencyName:   "  Atlas Football  ",
		SettingPageSize:     "500",
		SettingNoticeBanner: "Transfer window closes Friday",
	}))
	assert.Equal(t, "Atlas Football", env.settings.AgencyName())
	assert.Equal(t, MaxPageSize, env.settings.PageSize())
	assert.Equal(t, "Transfer window closes Friday", env.settings.NoticeBanner())
	assert.EqualValues(t, 1, env.count(t, &models.AdminLog{}, "resource = ?", "settings"))

	tests := []struct {
		name   string
		values map[string]string
		field  string
	}{
		{"empty name", map[string]string{SettingAgencyName: " "}, SettingAgencyName},
		{"page size not a number", map[string]string{SettingPageSize: "ten"}, SettingPageSize},
		{"unknown key", map[string]string{"theme": "dark"}, "theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.settings.Update(env.actor, tt.values)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	assert.Equal(t, "Atlas Football", env.settings.AgencyName())
}

func TestSettingsFallbackBeforeSeed(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "Scouting Agency", env.settings.AgencyName())
	assert.Equal(t, DefaultPageSize, env.settings.PageSize())
}
