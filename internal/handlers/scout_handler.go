package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/services"
)

type ScoutHandler struct {
	scouts  *services.ScoutService
	reports *services.ReportService
	render  *Renderer
}

func NewScoutHandler(scouts *services.ScoutService, reports *services.ReportService, render *Renderer) *ScoutHandler {
	return &ScoutHandler{scouts: scouts, reports: reports, render: render}
}

type scoutListContent struct {
	Scouts  []models.Scout
	Page    services.Page
	Filter  dto.ScoutFilter
	Regions []string
}

type scoutFormContent struct {
	Form   dto.ScoutForm
	IsNew  bool
	Action string
}

type scoutShowContent struct {
	Scout   *models.Scout
	Reports []models.ScoutingReport
}

func (h *ScoutHandler) List(c *fiber.Ctx) error {
	var filter dto.ScoutFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	scouts, page, err := h.scouts.List(filter, h.render.settings.PageSize())
	if err != nil {
		return err
	}
	regions, err := h.scouts.Regions()
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "scouts_list", "Scouts", scoutListContent{
		Scouts:  scouts,
		Page:    page,
		Filter:  filter,
		Regions: regions,
	})
}

func (h *ScoutHandler) New(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "scout_form", "New scout", scoutFormContent{
		Form:   dto.ScoutForm{Status: models.StatusActive},
		IsNew:  true,
		Action: "/scouts",
	})
}

func (h *ScoutHandler) Create(c *fiber.Ctx) error {
	var form dto.ScoutForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	scout, err := h.scouts.Create(middleware.Actor(c), &form)
	if err != nil {
		form.Password = ""
		return h.render.FormError(c, "scout_form", "New scout", scoutFormContent{Form: form, IsNew: true, Action: "/scouts"}, err)
	}
	return redirectWithFlash(c, "/scouts/"+scout.ID.String(), "Scout created.")
}

func (h *ScoutHandler) Show(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	scout, err := h.scouts.Get(id)
	if err != nil {
		return serviceError(err)
	}
	reports, err := h.reports.ForScout(id)
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "scout_show", scout.User.FullName, scoutShowContent{Scout: scout, Reports: reports})
}

func (h *ScoutHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	scout, err := h.scouts.Get(id)
	if err != nil {
		return serviceError(err)
	}

	form := dto.ScoutForm{
		Username:        scout.User.Username,
		Email:           scout.User.Email,
		FullName:        scout.User.FullName,
		Country:         scout.User.Country,
		Phone:           scout.User.Phone,
		Status:          scout.User.Status,
		Region:          scout.Region,
		Specialization:  scout.Specialization,
		ExperienceYears: scout.ExperienceYears,
		Verified:        scout.Verified,
	}
	return h.render.Page(c, fiber.StatusOK, "scout_form", "Edit "+scout.User.FullName, scoutFormContent{
		Form:   form,
		Action: "/scouts/" + id.String(),
	})
}

func (h *ScoutHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.ScoutForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.scouts.Update(middleware.Actor(c), id, &form); err != nil {
		form.Password = ""
		return h.render.FormError(c, "scout_form", "Edit scout", scoutFormContent{Form: form, Action: "/scouts/" + id.String()}, err)
	}
	return redirectWithFlash(c, "/scouts/"+id.String(), "Scout updated.")
}

func (h *ScoutHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.scouts.Delete(middleware.Actor(c), id); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/scouts", "Scout deleted.")
}
