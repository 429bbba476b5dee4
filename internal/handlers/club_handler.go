package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/services"
)

type ClubHandler struct {
	clubs  *services.ClubService
	render *Renderer
}

func NewClubHandler(clubs *services.ClubService, render *Renderer) *ClubHandler {
	return &ClubHandler{clubs: clubs, render: render}
}

type clubListContent struct {
	Clubs     []models.Club
	Page      services.Page
	Filter    dto.ClubFilter
	Countries []string
}

type clubFormContent struct {
	Form   dto.ClubForm
	IsNew  bool
	Action string
}

type clubShowContent struct {
	Club  *models.Club
	Squad []models.User
}

func (h *ClubHandler) List(c *fiber.Ctx) error {
	var filter dto.ClubFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	clubs, page, err := h.clubs.List(filter, h.render.settings.PageSize())
	if err != nil {
		return err
	}
	countries, err := h.clubs.Countries()
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "clubs_list", "Clubs", clubListContent{
		Clubs:     clubs,
		Page:      page,
		Filter:    filter,
		Countries: countries,
	})
}

func (h *ClubHandler) New(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "club_form", "New club", clubFormContent{IsNew: true, Action: "/clubs"})
}

func (h *ClubHandler) Create(c *fiber.Ctx) error {
	var form dto.ClubForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	club, err := h.clubs.Create(middleware.Actor(c), &form)
	if err != nil {
		return h.render.FormError(c, "club_form", "New club", clubFormContent{Form: form, IsNew: true, Action: "/clubs"}, err)
	}
	return redirectWithFlash(c, "/clubs/"+club.ID.String(), "Club created.")
}

func (h *ClubHandler) Show(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	club, err := h.clubs.Get(id)
	if err != nil {
		return serviceError(err)
	}
	squad, err := h.clubs.Squad(id)
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "club_show", club.Name, clubShowContent{Club: club, Squad: squad})
}

func (h *ClubHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	club, err := h.clubs.Get(id)
	if err != nil {
		return serviceError(err)
	}

	form := dto.ClubForm{
		Name:         club.Name,
		Country:      club.Country,
		League:       club.League,
		City:         club.City,
		Stadium:      club.Stadium,
		FoundedYear:  club.FoundedYear,
		Website:      club.Website,
		ContactEmail: club.ContactEmail,
	}
	return h.render.Page(c, fiber.StatusOK, "club_form", "Edit "+club.Name, clubFormContent{
		Form:   form,
		Action: "/clubs/" + id.String(),
	})
}

func (h *ClubHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.ClubForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.clubs.Update(middleware.Actor(c), id, &form); err != nil {
		return h.render.FormError(c, "club_form", "Edit club", clubFormContent{Form: form, Action: "/clubs/" + id.String()}, err)
	}
	return redirectWithFlash(c, "/clubs/"+id.String(), "Club updated.")
}

func (h *ClubHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.clubs.Delete(middleware.Actor(c), id); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/clubs", "Club deleted.")
}
