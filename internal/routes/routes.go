package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/handlers"
	"github.com/scoutline/agency-admin/internal/metrics"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

// Handlers groups every HTTP handler the admin panel serves.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	Dashboard *handlers.DashboardHandler
	Players   *handlers.PlayerHandler
	Scouts    *handlers.ScoutHandler
	Clubs     *handlers.ClubHandler
	Reports   *handlers.ReportHandler
	Transfers *handlers.TransferHandler
	Admins    *handlers.AdminHandler
	Logs      *handlers.LogHandler
	Settings  *handlers.SettingsHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	h Handlers,
	authService *services.AuthService,
	roles *permissions.Registry,
) {
	// Machine endpoints: no session, no CSRF
	app.Get("/api/health", h.Health.Check)
	app.Get("/metrics", metrics.Handler())

	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/api") || c.Path() == "/metrics"
			},
			KeyLookup:      "form:_csrf",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   cfg.CookieSecure,
			CookieHTTPOnly: true,
			Expiration:     time.Hour,
			ContextKey:     "csrf",
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return fiber.NewError(fiber.StatusForbidden, "Invalid or expired form, reload the page and try again")
			},
		}))
	}

	// Login: 10 attempts/min per IP
	app.Get("/login", h.Auth.LoginPage)
	app.Post("/login", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many login attempts, try again in a minute")
		},
	}), h.Auth.Login)

	// Everything below requires a valid session and an active admin
	app.Use(middleware.Session(cfg), middleware.LoadAdmin(cfg, authService, roles))

	can := middleware.RequirePermission

	app.Get("/", h.Dashboard.Show)
	app.Post("/logout", h.Auth.Logout)
	app.Get("/account/password", h.Auth.PasswordPage)
	app.Post("/account/password", h.Auth.ChangePassword)

	players := app.Group("/players")
	players.Get("/", can(permissions.Players, permissions.View), h.Players.List)
	players.Get("/new", can(permissions.Players, permissions.Create), h.Players.New)
	players.Post("/", can(permissions.Players, permissions.Create), h.Players.Create)
	players.Get("/export", can(permissions.Players, permissions.Export), h.Players.Export)
	players.Get("/:id", can(permissions.Players, permissions.View), h.Players.Show)
	players.Get("/:id/edit", can(permissions.Players, permissions.Edit), h.Players.Edit)
	players.Post("/:id", can(permissions.Players, permissions.Edit), h.Players.Update)
	players.Post("/:id/delete", can(permissions.Players, permissions.Delete), h.Players.Delete)
	players.Post("/:id/notes", can(permissions.Notes, permissions.Create), h.Players.AddNote)
	players.Post("/:id/notes/:noteId/delete", can(permissions.Notes, permissions.Delete), h.Players.DeleteNote)

	scouts := app.Group("/scouts")
	scouts.Get("/", can(permissions.Scouts, permissions.View), h.Scouts.List)
	scouts.Get("/new", can(permissions.Scouts, permissions.Create), h.Scouts.New)
	scouts.Post("/", can(permissions.Scouts, permissions.Create), h.Scouts.Create)
	scouts.Get("/:id", can(permissions.Scouts, permissions.View), h.Scouts.Show)
	scouts.Get("/:id/edit", can(permissions.Scouts, permissions.Edit), h.Scouts.Edit)
	scouts.Post("/:id", can(permissions.Scouts, permissions.Edit), h.Scouts.Update)
	scouts.Post("/:id/delete", can(permissions.Scouts, permissions.Delete), h.Scouts.Delete)

	clubs := app.Group("/clubs")
	clubs.Get("/", can(permissions.Clubs, permissions.View), h.Clubs.List)
	clubs.Get("/new", can(permissions.Clubs, permissions.Create), h.Clubs.New)
	clubs.Post("/", can(permissions.Clubs, permissions.Create), h.Clubs.Create)
	clubs.Get("/:id", can(permissions.Clubs, permissions.View), h.Clubs.Show)
	clubs.Get("/:id/edit", can(permissions.Clubs, permissions.Edit), h.Clubs.Edit)
	clubs.Post("/:id", can(permissions.Clubs, permissions.Edit), h.Clubs.Update)
	clubs.Post("/:id/delete", can(permissions.Clubs, permissions.Delete), h.Clubs.Delete)

	reports := app.Group("/reports")
	reports.Get("/", can(permissions.Reports, permissions.View), h.Reports.List)
	reports.Get("/new", can(permissions.Reports, permissions.Create), h.Reports.New)
	reports.Post("/", can(permissions.Reports, permissions.Create), h.Reports.Create)
	reports.Get("/:id", can(permissions.Reports, permissions.View), h.Reports.Show)
	reports.Get("/:id/edit", can(permissions.Reports, permissions.Edit), h.Reports.Edit)
	reports.Post("/:id", can(permissions.Reports, permissions.Edit), h.Reports.Update)
	reports.Post("/:id/action", middleware.RequireAny(permissions.Reports, permissions.Edit, permissions.Approve), h.Reports.Action)
	reports.Post("/:id/delete", can(permissions.Reports, permissions.Delete), h.Reports.Delete)

	transfers := app.Group("/transfers")
	transfers.Get("/", can(permissions.Transfers, permissions.View), h.Transfers.List)
	transfers.Get("/new", can(permissions.Transfers, permissions.Create), h.Transfers.New)
	transfers.Post("/", can(permissions.Transfers, permissions.Create), h.Transfers.Create)
	transfers.Get("/:id/edit", can(permissions.Transfers, permissions.Edit), h.Transfers.Edit)
	transfers.Post("/:id", can(permissions.Transfers, permissions.Edit), h.Transfers.Update)
	transfers.Post("/:id/delete", can(permissions.Transfers, permissions.Delete), h.Transfers.Delete)

	admins := app.Group("/admins")
	admins.Get("/", can(permissions.Admins, permissions.View), h.Admins.List)
	admins.Get("/new", can(permissions.Admins, permissions.Create), h.Admins.New)
	admins.Post("/", can(permissions.Admins, permissions.Create), h.Admins.Create)
	admins.Get("/:id/edit", can(permissions.Admins, permissions.Edit), h.Admins.Edit)
	admins.Post("/:id", can(permissions.Admins, permissions.Edit), h.Admins.Update)
	admins.Post("/:id/delete", can(permissions.Admins, permissions.Delete), h.Admins.Delete)

	app.Get("/logs", can(permissions.Logs, permissions.View), h.Logs.List)

	app.Get("/settings", can(permissions.Settings, permissions.View), h.Settings.Show)
	app.Post("/settings", can(permissions.Settings, permissions.Edit), h.Settings.Update)
}
