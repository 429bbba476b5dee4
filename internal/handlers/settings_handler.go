package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
	render   *Renderer
}

func NewSettingsHandler(settings *services.SettingsService, render *Renderer) *SettingsHandler {
	return &SettingsHandler{settings: settings, render: render}
}

type settingsContent struct {
	AgencyName   string
	PageSize     string
	NoticeBanner string
	CanEdit      bool
}

func (h *SettingsHandler) Show(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "settings", "Settings", settingsContent{
		AgencyName:   h.settings.AgencyName(),
		PageSize:     strconv.Itoa(h.settings.PageSize()),
		NoticeBanner: h.settings.NoticeBanner(),
		CanEdit:      middleware.CurrentPermissions(c).Can(permissions.Settings, permissions.Edit),
	})
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	values := map[string]string{
		services.SettingAgencyName:   c.FormValue(services.SettingAgencyName),
		services.SettingPageSize:     c.FormValue(services.SettingPageSize),
		services.SettingNoticeBanner: c.FormValue(services.SettingNoticeBanner),
	}

	if err := h.settings.Update(middleware.Actor(c), values); err != nil {
		return h.render.FormError(c, "settings", "Settings", settingsContent{
			AgencyName:   values[services.SettingAgencyName],
			PageSize:     values[services.SettingPageSize],
			NoticeBanner: values[services.SettingNoticeBanner],
			CanEdit:      true,
		}, err)
	}
	return redirectWithFlash(c, "/settings", "Settings saved.")
}
