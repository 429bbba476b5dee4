package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/services"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
	render    *Renderer
}

func NewDashboardHandler(dashboard *services.DashboardService, render *Renderer) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, render: render}
}

type dashboardContent struct {
	*services.DashboardStats
	Statuses []string
}

func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	stats, err := h.dashboard.Stats()
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "dashboard", "Dashboard", dashboardContent{
		DashboardStats: stats,
		Statuses:       models.ReportStatuses,
	})
}
