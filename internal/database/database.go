package database

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

func Connect(cfg *config.Config) error {
	d, err := dialector(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(d, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "driver", cfg.DBDriver)
	return nil
}

// Migrate runs AutoMigrate for every model, parents before children.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Club{},
		&models.PlayerProfile{},
		&models.Scout{},
		&models.ScoutingReport{},
		&models.TransferOpportunity{},
		&models.PlayerNote{},
		&models.AdminUser{},
		&models.AdminLog{},
		&models.SystemLog{},
		&models.Setting{},
	)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// EnsureBootstrapAdmin creates a super admin when no admin account exists.
// It returns true when an account was created.
func EnsureBootstrapAdmin(db *gorm.DB, cfg *config.Config) (bool, error) {
	var count int64
	if err := db.Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if len(cfg.BootstrapAdminPassword) < 6 {
		return false, errors.New("no admin account exists and BOOTSTRAP_ADMIN_PASSWORD is missing or shorter than 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.AdminUser{
		Username:    cfg.BootstrapAdminUsername,
		Email:       cfg.BootstrapAdminEmail,
		Password:    string(hash),
		FullName:    "Administrator",
		Role:        permissions.RoleSuperAdmin,
		Permissions: []byte("{}"),
		Active:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	slog.Info("bootstrap admin created", "username", admin.Username)
	return true, nil
}
