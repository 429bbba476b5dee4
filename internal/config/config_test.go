package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 8*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.CSRFEnabled)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/agency.db")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CSRF_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.CSRFEnabled)
	assert.Equal(t, "file:/tmp/agency.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.DSN())
}

func TestDSNPerDriver(t *testing.T) {
	cfg := &Config{
		DBHost: "db", DBPort: "3306", DBUser: "scout", DBPassword: "pw",
		DBName: "agency", DBSSLMode: "disable",
	}

	cfg.DBDriver = DriverMySQL
	assert.Equal(t, "scout:pw@tcp(db:3306)/agency?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", cfg.DSN())

	// matched rows, not changed rows, so unchanged updates still report a hit
	assert.Contains(t, cfg.DSN(), "clientFoundRows=true")

	cfg.DBDriver = DriverPostgres
	assert.Equal(t, "host=db user=scout password=pw dbname=agency port=3306 sslmode=disable TimeZone=UTC", cfg.DSN())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing secret", Config{DBDriver: DriverSQLite}, "SESSION_SECRET"},
		{"postgres without password", Config{DBDriver: DriverPostgres, SessionSecret: "s"}, "DB_PASSWORD"},
		{"unknown driver", Config{DBDriver: "oracle", SessionSecret: "s"}, "unsupported DB_DRIVER"},
		{"sqlite ok", Config{DBDriver: DriverSQLite, SessionSecret: "s"}, ""},
		{"mysql ok", Config{DBDriver: DriverMySQL, SessionSecret: "s", DBPassword: "pw"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
