package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

const recentErrorLimit = 20

type LogHandler struct {
	audit  *services.AuditService
	render *Renderer
}

func NewLogHandler(audit *services.AuditService, render *Renderer) *LogHandler {
	return &LogHandler{audit: audit, render: render}
}

type logListContent struct {
	Logs      []models.AdminLog
	Page      services.Page
	Filter    dto.LogFilter
	Actions   []string
	Resources []permissions.Resource
	Errors    []models.SystemLog
}

func (h *LogHandler) List(c *fiber.Ctx) error {
	var filter dto.LogFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	logs, page, err := h.audit.List(filter, h.render.settings.PageSize())
	if err != nil {
		return err
	}
	actions, err := h.audit.Actions()
	if err != nil {
		return err
	}
	recent, err := h.audit.RecentErrors(recentErrorLimit)
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "logs", "Activity log", logListContent{
		Logs:      logs,
		Page:      page,
		Filter:    filter,
		Actions:   actions,
		Resources: permissions.Resources,
		Errors:    recent,
	})
}
