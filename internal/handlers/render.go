package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/services"
	"github.com/scoutline/agency-admin/internal/views"
)

const flashCookie = "flash"

// Renderer turns handler results into HTML pages with the shared layout data.
type Renderer struct {
	views    *views.Renderer
	settings *services.SettingsService
}

func NewRenderer(v *views.Renderer, settings *services.SettingsService) *Renderer {
	return &Renderer{views: v, settings: settings}
}

type errorContent struct {
	Code    int
	Message string
}

func (r *Renderer) data(c *fiber.Ctx, title string, content interface{}) *views.Data {
	csrfToken, _ := c.Locals("csrf").(string)
	query, _ := url.ParseQuery(string(c.Request().URI().QueryString()))

	d := &views.Data{
		Title:      title,
		Admin:      middleware.CurrentAdmin(c),
		Perms:      middleware.CurrentPermissions(c),
		CSRF:       csrfToken,
		AgencyName: r.settings.AgencyName(),
		Notice:     r.settings.NoticeBanner(),
		Path:       c.Path(),
		Query:      query,
		Content:    content,
	}
	if flash := c.Cookies(flashCookie); flash != "" {
		d.Flash = flash
		c.ClearCookie(flashCookie)
	}
	return d
}

// Page renders a full page with the given status.
func (r *Renderer) Page(c *fiber.Ctx, status int, page, title string, content interface{}) error {
	return r.send(c, status, page, r.data(c, title, content))
}

func (r *Renderer) send(c *fiber.Ctx, status int, page string, d *views.Data) error {
	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return r.views.Render(c.Response().BodyWriter(), page, d)
}

// FormError re-renders a form for validation and conflict errors. Anything
// else is returned for the caller to pass on.
func (r *Renderer) FormError(c *fiber.Ctx, page, title string, content interface{}, err error) error {
	status, field, ok := formErrorStatus(err)
	if !ok {
		return serviceError(err)
	}
	d := r.data(c, title, content)
	d.Error = err.Error()
	d.Field = field
	return r.send(c, status, page, d)
}

func formErrorStatus(err error) (status int, field string, ok bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, verr.Field, true
	case errors.Is(err, services.ErrUsernameTaken):
		return fiber.StatusConflict, "username", true
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, "email", true
	case errors.Is(err, services.ErrClubNameTaken):
		return fiber.StatusConflict, "name", true
	case errors.Is(err, services.ErrPlayerNotFound):
		return fiber.StatusUnprocessableEntity, "player_id", true
	case errors.Is(err, services.ErrScoutNotFound):
		return fiber.StatusUnprocessableEntity, "scout_id", true
	case errors.Is(err, services.ErrClubNotFound):
		return fiber.StatusUnprocessableEntity, "club_id", true
	}
	return 0, "", false
}

var notFoundErrors = []error{
	services.ErrPlayerNotFound,
	services.ErrScoutNotFound,
	services.ErrClubNotFound,
	services.ErrReportNotFound,
	services.ErrTransferNotFound,
	services.ErrNoteNotFound,
	services.ErrAdminNotFound,
}

// serviceError maps service sentinels onto HTTP errors.
func serviceError(err error) error {
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			return fiber.NewError(fiber.StatusNotFound, capitalize(err.Error()))
		}
	}
	if errors.Is(err, services.ErrSelfModification) {
		return fiber.NewError(fiber.StatusConflict, capitalize(err.Error()))
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	return id, nil
}

// redirectWithFlash stores a one-time message and redirects after a POST.
func redirectWithFlash(c *fiber.Ctx, location, message string) error {
	if message != "" {
		c.Cookie(&fiber.Cookie{
			Name:     flashCookie,
			Value:    message,
			Path:     "/",
			Expires:  time.Now().Add(time.Minute),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.Redirect(location, fiber.StatusSeeOther)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

// ErrorHandler is the central Fiber error handler: HTML error pages for the
// admin UI, JSON under /api. Server errors are logged and sent to Sentry.
func ErrorHandler(r *Renderer) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		// Only expose error details for client errors (4xx), not server errors (5xx)
		if code >= 500 {
			attrs := []interface{}{"request_id", requestID(c), "method", c.Method(), "path", c.Path(), "error", err.Error()}
			if admin := middleware.CurrentAdmin(c); admin != nil {
				attrs = append(attrs, "admin_id", admin.ID.String())
			}
			slog.Error("unhandled server error", attrs...)
			if hub := sentryfiber.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
			message = "Internal server error"
		}

		if r == nil || strings.HasPrefix(c.Path(), "/api") {
			return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
		}

		title := http.StatusText(code)
		if code == fiber.StatusForbidden {
			title = "Access denied"
		}
		c.Response().ResetBody()
		if rerr := r.Page(c, code, "error", title, errorContent{Code: code, Message: message}); rerr != nil {
			slog.Error("failed to render error page", "error", rerr)
			return c.Status(code).SendString(message)
		}
		return nil
	}
}
