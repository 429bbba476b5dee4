package middleware

import (
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

// LoadAdmin loads the session's admin row on every request, so deleted or
// deactivated accounts lose access immediately, and resolves their
// effective permissions.
func LoadAdmin(cfg *config.Config, auth *services.AuthService, roles *permissions.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionAdminID(c)
		if err != nil {
			ClearSessionCookie(c, cfg)
			return c.Redirect("/login")
		}

		admin, err := auth.GetActiveAdmin(id)
		if err != nil {
			slog.Info("session rejected", "admin_id", id.String(), "reason", err.Error())
			ClearSessionCookie(c, cfg)
			return c.Redirect("/login")
		}
		if sessionVersion(c) != admin.SessionVersion {
			slog.Info("session rejected", "admin_id", id.String(), "reason", "password changed")
			ClearSessionCookie(c, cfg)
			return c.Redirect("/login")
		}

		stored, err := permissions.Parse(admin.Permissions)
		if err != nil {
			slog.Warn("invalid stored permissions", "admin_id", admin.ID.String(), "error", err)
			stored = permissions.Set{}
		}

		c.Locals(localAdmin, admin)
		c.Locals(localPermissions, roles.Effective(admin.Role, stored))

		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.Scope().SetUser(sentry.User{ID: admin.ID.String(), Username: admin.Username})
		}
		return c.Next()
	}
}

// RequirePermission rejects the request with 403 unless the current admin
// may perform action on resource.
func RequirePermission(resource permissions.Resource, action permissions.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentPermissions(c).Can(resource, action) {
			return fiber.NewError(fiber.StatusForbidden, "Access denied")
		}
		return c.Next()
	}
}

// RequireAny passes when at least one of the actions is allowed on resource.
func RequireAny(resource permissions.Resource, actions ...permissions.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms := CurrentPermissions(c)
		for _, a := range actions {
			if perms.Can(resource, a) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
}
