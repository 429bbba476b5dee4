package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	audit     *AuditService
	auth      *AuthService
	players   *PlayerService
	scouts    *ScoutService
	clubs     *ClubService
	reports   *ReportService
	transfers *TransferService
	notes     *NoteService
	admins    *AdminService
	settings  *SettingsService
	actor     Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{SessionSecret: "test-secret", SessionTTL: time.Hour}
	audit := NewAuditService(db)
	roles, err := permissions.DefaultRegistry()
	require.NoError(t, err)

	env := &testEnv{
		db:        db,
		cfg:       cfg,
		audit:     audit,
		auth:      NewAuthService(db, cfg, audit),
		players:   NewPlayerService(db, audit),
		scouts:    NewScoutService(db, audit),
		clubs:     NewClubService(db, audit),
		reports:   NewReportService(db, audit),
		transfers: NewTransferService(db, audit),
		notes:     NewNoteService(db, audit),
		admins:    NewAdminService(db, roles, audit),
		settings:  NewSettingsService(db, audit),
	}
	env.players.now = func() time.Time { return fixedNow }
	env.reports.now = func() time.Time { return fixedNow }

	admin := env.createAdmin(t, "root", "root@agency.test", "secret1", permissions.RoleSuperAdmin, true)
	env.actor = Actor{AdminID: admin.ID, Username: admin.Username, IP: "127.0.0.1"}
	return env
}

func (e *testEnv) createAdmin(t *testing.T, username, email, password, role string, active bool) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.AdminUser{
		Username:    username,
		Email:       email,
		Password:    string(hash),
		Role:        role,
		Permissions: []byte("{}"),
		Active:      true,
	}
	require.NoError(t, e.db.Create(&admin).Error)
	if !active {
		// the column default would override a false value on insert
		require.NoError(t, e.db.Model(&admin).Update("active", false).Error)
		admin.Active = false
	}
	return &admin
}

func playerForm(username, country, position, dob string) *dto.PlayerForm {
	return &dto.PlayerForm{
		Username:    username,
		Email:       username + "@players.test",
		Password:    "secret1",
		FullName:    "Player " + username,
		Country:     country,
		Position:    position,
		DateOfBirth: dob,
	}
}

func (e *testEnv) createPlayer(t *testing.T, username, country, position, dob string) *models.User {
	t.Helper()
	p, err := e.players.Create(e.actor, playerForm(username, country, position, dob))
	require.NoError(t, err)
	return p
}

func (e *testEnv) createScout(t *testing.T, username string) *models.Scout {
	t.Helper()
	s, err := e.scouts.Create(e.actor, &dto.ScoutForm{
		Username: username,
		Email:    username + "@scouts.test",
		Password: "secret1",
		FullName: "Scout " + username,
		Region:   "Iberia",
	})
	require.NoError(t, err)
	return s
}

func (e *testEnv) createClub(t *testing.T, name string) *models.Club {
	t.Helper()
	c, err := e.clubs.Create(e.actor, &dto.ClubForm{Name: name, Country: "Spain", League: "La Liga"})
	require.NoError(t, err)
	return c
}

func reportForm(playerID, scoutID uuid.UUID) *dto.ReportForm {
	return &dto.ReportForm{
		PlayerID:       playerID.String(),
		ScoutID:        scoutID.String(),
		Title:          "First look",
		Summary:        "Quick feet, **good** vision.",
		Technical:      8,
		Physical:       7,
		Mental:         6,
		Tactical:       7,
		Potential:      9,
		Recommendation: "monitor",
	}
}

func (e *testEnv) createReport(t *testing.T, playerID, scoutID uuid.UUID) *models.ScoutingReport {
	t.Helper()
	r, err := e.reports.Create(e.actor, reportForm(playerID, scoutID))
	require.NoError(t, err)
	return r
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
