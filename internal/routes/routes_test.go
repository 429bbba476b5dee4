package routes_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/handlers"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/routes"
	"github.com/scoutline/agency-admin/internal/services"
	"github.com/scoutline/agency-admin/internal/testutil"
	"github.com/scoutline/agency-admin/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServer struct {
	app     *fiber.App
	db      *gorm.DB
	players *services.PlayerService
	scouts  *services.ScoutService
	reports *services.ReportService
	actor   services.Actor
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		CORSOrigins:   "*",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	roles, err := permissions.DefaultRegistry()
	require.NoError(t, err)

	audit := services.NewAuditService(db)
	auth := services.NewAuthService(db, cfg, audit)
	settings := services.NewSettingsService(db, audit)
	require.NoError(t, settings.SeedDefaults())
	players := services.NewPlayerService(db, audit)
	scouts := services.NewScoutService(db, audit)
	clubs := services.NewClubService(db, audit)
	reports := services.NewReportService(db, audit)
	transfers := services.NewTransferService(db, audit)
	notes := services.NewNoteService(db, audit)
	admins := services.NewAdminService(db, roles, audit)

	pages, err := views.New()
	require.NoError(t, err)
	renderer := handlers.NewRenderer(pages, settings)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(renderer)})
	app.Use(requestid.New())
	routes.Setup(app, cfg, routes.Handlers{
		Auth:      handlers.NewAuthHandler(cfg, auth, renderer),
		Health:    handlers.NewHealthHandler(db),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(db, reports, transfers, audit), renderer),
		Players:   handlers.NewPlayerHandler(players, clubs, reports, transfers, notes, services.NewExportService(players), audit, renderer),
		Scouts:    handlers.NewScoutHandler(scouts, reports, renderer),
		Clubs:     handlers.NewClubHandler(clubs, renderer),
		Reports:   handlers.NewReportHandler(reports, players, scouts, admins, renderer),
		Transfers: handlers.NewTransferHandler(transfers, players, clubs, renderer),
		Admins:    handlers.NewAdminHandler(admins, roles, renderer),
		Logs:      handlers.NewLogHandler(audit, renderer),
		Settings:  handlers.NewSettingsHandler(settings, renderer),
	}, auth, roles)

	ts := &testServer{app: app, db: db, players: players, scouts: scouts, reports: reports}
	root := ts.createAdmin(t, "root", permissions.RoleSuperAdmin)
	ts.actor = services.Actor{AdminID: root.ID, Username: root.Username, IP: "127.0.0.1"}
	ts.createAdmin(t, "viewer", "viewer")
	ts.createAdmin(t, "manager", "scout_manager")
	return ts
}

func (ts *testServer) createAdmin(t *testing.T, username, role string) *models.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := models.AdminUser{
		Username:    username,
		Email:       username + "@agency.test",
		Password:    string(hash),
		Role:        role,
		Permissions: []byte("{}"),
		Active:      true,
	}
	require.NoError(t, ts.db.Create(&admin).Error)
	return &admin
}

func (ts *testServer) do(t *testing.T, method, path string, form url.Values, session string) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: session})
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/login", url.Values{"login": {username}, "password": {"secret1"}}, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			require.NotEmpty(t, c.Value)
			return c.Value
		}
	}
	t.Fatal("login did not set the session cookie")
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (ts *testServer) seedReport(t *testing.T) *models.ScoutingReport {
	t.Helper()
	player, err := ts.players.Create(ts.actor, &dto.PlayerForm{
		Username: "pedri", Email: "pedri@players.test", Password: "secret1",
		FullName: "Pedro Gonzalez", Country: "Spain", Position: models.PositionMidfielder,
		DateOfBirth: "2002-11-25",
	})
	require.NoError(t, err)
	scout, err := ts.scouts.Create(ts.actor, &dto.ScoutForm{
		Username: "scout1", Email: "scout1@scouts.test", Password: "secret1",
		FullName: "Ana Scout", Region: "Iberia",
	})
	require.NoError(t, err)
	report, err := ts.reports.Create(ts.actor, &dto.ReportForm{
		PlayerID: player.ID.String(), ScoutID: scout.ID.String(), Title: "First look",
		Technical: 8, Physical: 7, Mental: 7, Tactical: 8, Potential: 9,
		Status: models.ReportSubmitted,
	})
	require.NoError(t, err)
	return report
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"ok"`)
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/", "/players", "/admins", "/settings"} {
		resp := ts.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation), path)
	}

	resp := ts.do(t, http.MethodGet, "/players", nil, "not-a-token")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/login", url.Values{"login": {"root"}, "password": {"wrong"}}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Invalid username or password")

	session := ts.login(t, "root")
	resp = ts.do(t, http.MethodGet, "/", nil, session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Scouting Agency")
}

func TestDisabledAccountLosesSession(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "viewer")

	require.NoError(t, ts.db.Model(&models.AdminUser{}).Where("username = ?", "viewer").Update("active", false).Error)

	resp := ts.do(t, http.MethodGet, "/players", nil, session)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	resp = ts.do(t, http.MethodPost, "/login", url.Values{"login": {"viewer"}, "password": {"secret1"}}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLoginIsRateLimited(t *testing.T) {
	ts := newTestServer(t)
	bad := url.Values{"login": {"root"}, "password": {"wrong"}}

	for i := 0; i < 10; i++ {
		resp := ts.do(t, http.MethodPost, "/login", bad, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "attempt %d", i+1)
	}

	resp := ts.do(t, http.MethodPost, "/login", bad, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// the correct password is refused too until the window passes
	resp = ts.do(t, http.MethodPost, "/login", url.Values{"login": {"root"}, "password": {"secret1"}}, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestLoginRequiresCSRFToken(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) { cfg.CSRFEnabled = true })

	resp := ts.do(t, http.MethodGet, "/login", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var token string
	for _, c := range resp.Cookies() {
		if c.Name == "csrf_" {
			token = c.Value
		}
	}
	require.NotEmpty(t, token)
	assert.Contains(t, readBody(t, resp), `name="_csrf" value="`+token+`"`)

	post := func(form url.Values, withCookie bool) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		if withCookie {
			req.AddCookie(&http.Cookie{Name: "csrf_", Value: token})
		}
		resp, err := ts.app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
	creds := url.Values{"login": {"root"}, "password": {"secret1"}}

	assert.Equal(t, http.StatusForbidden, post(creds, true).StatusCode)

	forged := url.Values{"login": {"root"}, "password": {"secret1"}, "_csrf": {"forged"}}
	assert.Equal(t, http.StatusForbidden, post(forged, true).StatusCode)

	withToken := url.Values{"login": {"root"}, "password": {"secret1"}, "_csrf": {token}}
	assert.Equal(t, http.StatusForbidden, post(withToken, false).StatusCode)

	resp = post(withToken, true)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
}

func TestPasswordChangeEndsOtherSessions(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "viewer")

	resp := ts.do(t, http.MethodPost, "/account/password", url.Values{
		"current_password": {"secret1"},
		"new_password":     {"newsecret"},
		"confirm_password": {"newsecret"},
	}, session)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var renewed string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			renewed = c.Value
		}
	}
	require.NotEmpty(t, renewed)
	assert.NotEqual(t, session, renewed)

	resp = ts.do(t, http.MethodGet, "/", nil, session)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	resp = ts.do(t, http.MethodGet, "/", nil, renewed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "root")

	resp := ts.do(t, http.MethodPost, "/logout", url.Values{}, session)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			assert.Empty(t, c.Value)
		}
	}
}

func TestPermissionDenied(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "viewer")

	resp := ts.do(t, http.MethodGet, "/players", nil, session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	for _, path := range []string{"/admins", "/settings", "/logs", "/players/new", "/players/export"} {
		resp := ts.do(t, http.MethodGet, path, nil, session)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Contains(t, readBody(t, resp), "Access denied", path)
	}

	resp = ts.do(t, http.MethodPost, "/clubs", url.Values{"name": {"Girona"}}, session)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestNavHidesLinksWithoutPermission(t *testing.T) {
	ts := newTestServer(t)

	body := readBody(t, ts.do(t, http.MethodGet, "/", nil, ts.login(t, "viewer")))
	assert.NotContains(t, body, `href="/admins"`)
	assert.NotContains(t, body, `href="/settings"`)

	body = readBody(t, ts.do(t, http.MethodGet, "/", nil, ts.login(t, "root")))
	assert.Contains(t, body, `href="/admins"`)
}

func TestCreatePlayerValidation(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "root")

	resp := ts.do(t, http.MethodPost, "/players", url.Values{"username": {"x"}, "full_name": {"X"}}, session)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "field-error")

	form := url.Values{
		"username": {"lamine"}, "email": {"lamine@players.test"}, "password": {"secret1"},
		"full_name": {"Lamine Yamal"}, "country": {"Spain"}, "position": {"forward"},
		"date_of_birth": {"2007-07-13"}, "preferred_foot": {"left"},
	}
	resp = ts.do(t, http.MethodPost, "/players", form, session)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderLocation), "/players/"))

	form.Set("email", "other@players.test")
	resp = ts.do(t, http.MethodPost, "/players", form, session)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestUnknownIDIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "root")

	resp := ts.do(t, http.MethodGet, "/players/"+uuid.NewString(), nil, session)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/reports/not-a-uuid", nil, session)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReportActionFlow(t *testing.T) {
	ts := newTestServer(t)
	report := ts.seedReport(t)
	path := "/reports/" + report.ID.String()

	// viewer may neither edit nor approve
	viewer := ts.login(t, "viewer")
	resp := ts.do(t, http.MethodPost, path+"/action", url.Values{"action": {"approve"}}, viewer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	manager := ts.login(t, "manager")
	body := readBody(t, ts.do(t, http.MethodGet, path, nil, manager))
	assert.Contains(t, body, `value="approve"`)

	resp = ts.do(t, http.MethodPost, path+"/action", url.Values{"action": {"approve"}, "notes": {"Sign him."}}, manager)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get(fiber.HeaderLocation))

	got, err := ts.reports.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, got.Status)
	assert.NotNil(t, got.ApprovedAt)
	assert.Equal(t, "Sign him.", got.ReviewNotes)

	// unknown actions leave the report alone
	resp = ts.do(t, http.MethodPost, path+"/action", url.Values{"action": {"publish"}}, manager)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	got, err = ts.reports.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportApproved, got.Status)

	resp = ts.do(t, http.MethodPost, path+"/action", url.Values{"action": {"review"}}, manager)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	got, err = ts.reports.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportUnderReview, got.Status)
	assert.Nil(t, got.ApprovedAt)
}

func TestExportPlayers(t *testing.T) {
	ts := newTestServer(t)
	ts.seedReport(t)
	session := ts.login(t, "root")

	resp := ts.do(t, http.MethodGet, "/players/export?country=Spain", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment; filename=\"players-")
	assert.NotEmpty(t, readBody(t, resp))

	var count int64
	require.NoError(t, ts.db.Model(&models.AdminLog{}).Where("action = ? AND resource = ?", "export", "players").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSettingsUpdate(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "root")

	form := url.Values{"agency_name": {"North Star Scouting"}, "page_size": {"abc"}, "notice_banner": {""}}
	resp := ts.do(t, http.MethodPost, "/settings", form, session)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	form.Set("page_size", "25")
	resp = ts.do(t, http.MethodPost, "/settings", form, session)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	body := readBody(t, ts.do(t, http.MethodGet, "/", nil, session))
	assert.Contains(t, body, "North Star Scouting")
}

func TestCannotDeleteOwnAccount(t *testing.T) {
	ts := newTestServer(t)
	session := ts.login(t, "root")

	resp := ts.do(t, http.MethodPost, "/admins/"+ts.actor.AdminID.String()+"/delete", url.Values{}, session)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestNotesOnPlayerPage(t *testing.T) {
	ts := newTestServer(t)
	report := ts.seedReport(t)
	session := ts.login(t, "root")
	path := "/players/" + report.PlayerID.String()

	resp := ts.do(t, http.MethodPost, path+"/notes", url.Values{"body": {"Watched vs **Betis**"}}, session)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get(fiber.HeaderLocation))

	body := readBody(t, ts.do(t, http.MethodGet, path, nil, session))
	assert.Contains(t, body, "<strong>Betis</strong>")
	assert.Contains(t, body, "First look")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "root")

	resp := ts.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "agency_auth_login_attempts_total")
}
