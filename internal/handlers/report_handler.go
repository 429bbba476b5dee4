package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/metrics"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

// reportActionOrder is the button order on the report page. Each action is
// gated by the permission it needs.
var reportActionOrder = []struct {
	name   string
	action permissions.Action
}{
	{"review", permissions.Edit},
	{"approve", permissions.Approve},
	{"reject", permissions.Approve},
	{"draft", permissions.Edit},
}

func reportActionPermission(action string) (permissions.Action, bool) {
	for _, a := range reportActionOrder {
		if a.name == action {
			return a.action, true
		}
	}
	return "", false
}

type ReportHandler struct {
	reports *services.ReportService
	players *services.PlayerService
	scouts  *services.ScoutService
	admins  *services.AdminService
	render  *Renderer
}

func NewReportHandler(
	reports *services.ReportService,
	players *services.PlayerService,
	scouts *services.ScoutService,
	admins *services.AdminService,
	render *Renderer,
) *ReportHandler {
	return &ReportHandler{reports: reports, players: players, scouts: scouts, admins: admins, render: render}
}

type reportListContent struct {
	Reports  []models.ScoutingReport
	Page     services.Page
	Filter   dto.ReportFilter
	Statuses []string
	Players  []models.User
	Scouts   []models.Scout
}

type reportFormContent struct {
	Form            dto.ReportForm
	IsNew           bool
	Action          string
	ID              string
	Players         []models.User
	Scouts          []models.Scout
	Recommendations []string
}

type reportShowContent struct {
	Report   *models.ScoutingReport
	Reviewer string
	Actions  []string
}

func (h *ReportHandler) List(c *fiber.Ctx) error {
	var filter dto.ReportFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	reports, page, err := h.reports.List(filter, h.render.settings.PageSize())
	if err != nil {
		return err
	}
	players, err := h.players.Options()
	if err != nil {
		return err
	}
	scouts, err := h.scouts.Options()
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "reports_list", "Scouting reports", reportListContent{
		Reports:  reports,
		Page:     page,
		Filter:   filter,
		Statuses: models.ReportStatuses,
		Players:  players,
		Scouts:   scouts,
	})
}

func (h *ReportHandler) formContent(form dto.ReportForm, isNew bool, id string) (reportFormContent, error) {
	players, err := h.players.Options()
	if err != nil {
		return reportFormContent{}, err
	}
	scouts, err := h.scouts.Options()
	if err != nil {
		return reportFormContent{}, err
	}
	content := reportFormContent{
		Form:            form,
		IsNew:           isNew,
		Action:          "/reports",
		ID:              id,
		Players:         players,
		Scouts:          scouts,
		Recommendations: models.Recommendations,
	}
	if !isNew {
		content.Action = "/reports/" + id
	}
	return content, nil
}

func (h *ReportHandler) New(c *fiber.Ctx) error {
	form := dto.ReportForm{
		PlayerID: c.Query("player_id"),
		ScoutID:  c.Query("scout_id"),
		Status:   models.ReportDraft,
	}
	content, err := h.formContent(form, true, "")
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "report_form", "New scouting report", content)
}

func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var form dto.ReportForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := h.reports.Create(middleware.Actor(c), &form)
	if err != nil {
		content, cerr := h.formContent(form, true, "")
		if cerr != nil {
			return cerr
		}
		return h.render.FormError(c, "report_form", "New scouting report", content, err)
	}
	return redirectWithFlash(c, "/reports/"+report.ID.String(), "Report created.")
}

func (h *ReportHandler) Show(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reports.Get(id)
	if err != nil {
		return serviceError(err)
	}

	content := reportShowContent{Report: report}
	if report.ReviewedBy != nil {
		if reviewer, err := h.admins.Get(*report.ReviewedBy); err == nil {
			content.Reviewer = reviewer.Username
		}
	}
	perms := middleware.CurrentPermissions(c)
	for _, a := range reportActionOrder {
		if perms.Can(permissions.Reports, a.action) {
			content.Actions = append(content.Actions, a.name)
		}
	}

	return h.render.Page(c, fiber.StatusOK, "report_show", report.Title, content)
}

func (h *ReportHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reports.Get(id)
	if err != nil {
		return serviceError(err)
	}

	form := dto.ReportForm{
		PlayerID:       report.PlayerID.String(),
		ScoutID:        report.ScoutID.String(),
		Title:          report.Title,
		Summary:        report.Summary,
		Strengths:      report.Strengths,
		Weaknesses:     report.Weaknesses,
		Technical:      report.Technical,
		Physical:       report.Physical,
		Mental:         report.Mental,
		Tactical:       report.Tactical,
		Potential:      report.Potential,
		Recommendation: report.Recommendation,
		Status:         report.Status,
	}
	content, err := h.formContent(form, false, id.String())
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "report_form", "Edit report", content)
}

func (h *ReportHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.ReportForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.reports.Update(middleware.Actor(c), id, &form); err != nil {
		content, cerr := h.formContent(form, false, id.String())
		if cerr != nil {
			return cerr
		}
		return h.render.FormError(c, "report_form", "Edit report", content, err)
	}
	return redirectWithFlash(c, "/reports/"+id.String(), "Report updated.")
}

// Action applies a workflow action. Approve and reject need the approve
// permission, review and draft need edit. Unknown actions change nothing.
func (h *ReportHandler) Action(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.ReportActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	location := "/reports/" + id.String()
	required, known := reportActionPermission(req.Action)
	if !known {
		return redirectWithFlash(c, location, "")
	}
	if !middleware.CurrentPermissions(c).Can(permissions.Reports, required) {
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	applied, err := h.reports.ApplyAction(middleware.Actor(c), id, req.Action, req.Notes)
	if err != nil {
		return serviceError(err)
	}
	if !applied {
		return redirectWithFlash(c, location, "")
	}

	metrics.RecordReportTransition(req.Action)
	status, _ := services.ReportActionStatus(req.Action)
	slog.Info("report status changed", "report_id", id.String(), "action", req.Action, "status", status,
		"admin_id", middleware.CurrentAdmin(c).ID.String())
	return redirectWithFlash(c, location, "Report marked "+strings.ReplaceAll(status, "_", " ")+".")
}

func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.reports.Delete(middleware.Actor(c), id); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/reports", "Report deleted.")
}
