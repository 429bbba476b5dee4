package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/config"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/metrics"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/services"
)

type AuthHandler struct {
	cfg         *config.Config
	authService *services.AuthService
	render      *Renderer
}

func NewAuthHandler(cfg *config.Config, authService *services.AuthService, render *Renderer) *AuthHandler {
	return &AuthHandler{cfg: cfg, authService: authService, render: render}
}

type loginContent struct {
	Login string
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "login", "Sign in", loginContent{})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	admin, token, err := h.authService.Login(&req, c.IP())
	if err != nil {
		status := fiber.StatusUnauthorized
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			metrics.RecordLogin("invalid")
		case errors.Is(err, services.ErrAccountDisabled):
			metrics.RecordLogin("disabled")
			status = fiber.StatusForbidden
		default:
			return err
		}
		slog.Warn("login failed", "login", req.Login, "ip", c.IP(), "reason", err.Error())

		d := h.render.data(c, "Sign in", loginContent{Login: req.Login})
		d.Error = capitalize(err.Error())
		return h.render.send(c, status, "login", d)
	}

	metrics.RecordLogin("success")
	slog.Info("admin logged in", "admin_id", admin.ID.String(), "username", admin.Username, "ip", c.IP())
	middleware.SetSessionCookie(c, h.cfg, token)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.authService.Logout(middleware.Actor(c))
	middleware.ClearSessionCookie(c, h.cfg)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (h *AuthHandler) PasswordPage(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "password", "Change password", nil)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	actor := middleware.Actor(c)
	if err := h.authService.ChangePassword(actor, &req); err != nil {
		return h.render.FormError(c, "password", "Change password", nil, err)
	}

	// other sessions are now stale; keep this one signed in
	admin, err := h.authService.GetActiveAdmin(actor.AdminID)
	if err != nil {
		return err
	}
	token, err := h.authService.GenerateToken(admin)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, h.cfg, token)
	return redirectWithFlash(c, "/", "Password updated.")
}
