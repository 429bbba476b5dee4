package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/services"
)

type TransferHandler struct {
	transfers *services.TransferService
	players   *services.PlayerService
	clubs     *services.ClubService
	render    *Renderer
}

func NewTransferHandler(transfers *services.TransferService, players *services.PlayerService, clubs *services.ClubService, render *Renderer) *TransferHandler {
	return &TransferHandler{transfers: transfers, players: players, clubs: clubs, render: render}
}

type transferListContent struct {
	Transfers []models.TransferOpportunity
	Page      services.Page
	Filter    dto.TransferFilter
	Statuses  []string
	Types     []string
	Clubs     []models.Club
}

type transferFormContent struct {
	Form     dto.TransferForm
	IsNew    bool
	Action   string
	Players  []models.User
	Clubs    []models.Club
	Types    []string
	Statuses []string
}

func (h *TransferHandler) List(c *fiber.Ctx) error {
	var filter dto.TransferFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	transfers, page, err := h.transfers.List(filter, h.render.settings.PageSize())
	if err != nil {
		return err
	}
	clubs, err := h.clubs.Options()
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "transfers_list", "Transfer opportunities", transferListContent{
		Transfers: transfers,
		Page:      page,
		Filter:    filter,
		Statuses:  models.TransferStatuses,
		Types:     models.TransferTypes,
		Clubs:     clubs,
	})
}

func (h *TransferHandler) formContent(form dto.TransferForm, action string) (transferFormContent, error) {
	players, err := h.players.Options()
	if err != nil {
		return transferFormContent{}, err
	}
	clubs, err := h.clubs.Options()
	if err != nil {
		return transferFormContent{}, err
	}
	return transferFormContent{
		Form:     form,
		IsNew:    action == "/transfers",
		Action:   action,
		Players:  players,
		Clubs:    clubs,
		Types:    models.TransferTypes,
		Statuses: models.TransferStatuses,
	}, nil
}

func (h *TransferHandler) New(c *fiber.Ctx) error {
	form := dto.TransferForm{
		PlayerID: c.Query("player_id"),
		Type:     models.TransferTypes[0],
		Status:   models.TransferStatuses[0],
	}
	content, err := h.formContent(form, "/transfers")
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "transfer_form", "New transfer opportunity", content)
}

func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var form dto.TransferForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.transfers.Create(middleware.Actor(c), &form); err != nil {
		content, cerr := h.formContent(form, "/transfers")
		if cerr != nil {
			return cerr
		}
		return h.render.FormError(c, "transfer_form", "New transfer opportunity", content, err)
	}
	return redirectWithFlash(c, "/transfers", "Transfer opportunity created.")
}

func (h *TransferHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	t, err := h.transfers.Get(id)
	if err != nil {
		return serviceError(err)
	}

	form := dto.TransferForm{
		PlayerID: t.PlayerID.String(),
		ClubID:   t.ClubID.String(),
		Type:     t.Type,
		Status:   t.Status,
		Fee:      t.Fee,
		Notes:    t.Notes,
	}
	if t.Deadline != nil {
		form.Deadline = t.Deadline.Format("2006-01-02")
	}
	content, err := h.formContent(form, "/transfers/"+id.String())
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "transfer_form", "Edit transfer opportunity", content)
}

func (h *TransferHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.TransferForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.transfers.Update(middleware.Actor(c), id, &form); err != nil {
		content, cerr := h.formContent(form, "/transfers/"+id.String())
		if cerr != nil {
			return cerr
		}
		return h.render.FormError(c, "transfer_form", "Edit transfer opportunity", content, err)
	}
	return redirectWithFlash(c, "/transfers", "Transfer opportunity updated.")
}

func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.transfers.Delete(middleware.Actor(c), id); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/transfers", "Transfer opportunity deleted.")
}
