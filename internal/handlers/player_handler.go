package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/services"
)

type PlayerHandler struct {
	players   *services.PlayerService
	clubs     *services.ClubService
	reports   *services.ReportService
	transfers *services.TransferService
	notes     *services.NoteService
	export    *services.ExportService
	audit     *services.AuditService
	render    *Renderer
}

func NewPlayerHandler(
	players *services.PlayerService,
	clubs *services.ClubService,
	reports *services.ReportService,
	transfers *services.TransferService,
	notes *services.NoteService,
	export *services.ExportService,
	audit *services.AuditService,
	render *Renderer,
) *PlayerHandler {
	return &PlayerHandler{
		players:   players,
		clubs:     clubs,
		reports:   reports,
		transfers: transfers,
		notes:     notes,
		export:    export,
		audit:     audit,
		render:    render,
	}
}

type playerListContent struct {
	Players   []models.User
	Page      services.Page
	Filter    dto.PlayerFilter
	Countries []string
	Positions []string
}

type playerFormContent struct {
	Form      dto.PlayerForm
	IsNew     bool
	Action    string
	ID        string
	Clubs     []models.Club
	Positions []string
	Feet      []string
}

type playerShowContent struct {
	Player    *models.User
	Reports   []models.ScoutingReport
	Transfers []models.TransferOpportunity
	Notes     []models.PlayerNote
}

func (h *PlayerHandler) List(c *fiber.Ctx) error {
	var filter dto.PlayerFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	players, page, err := h.players.List(filter, h.render.settings.PageSize())
	if err != nil {
		return err
	}
	countries, err := h.players.Countries()
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "players_list", "Players", playerListContent{
		Players:   players,
		Page:      page,
		Filter:    filter,
		Countries: countries,
		Positions: models.Positions,
	})
}

func (h *PlayerHandler) formContent(form dto.PlayerForm, isNew bool, id string) (playerFormContent, error) {
	clubs, err := h.clubs.Options()
	if err != nil {
		return playerFormContent{}, err
	}
	content := playerFormContent{
		Form:      form,
		IsNew:     isNew,
		Action:    "/players",
		ID:        id,
		Clubs:     clubs,
		Positions: models.Positions,
		Feet:      models.PreferredFeet,
	}
	if !isNew {
		content.Action = "/players/" + id
	}
	return content, nil
}

func (h *PlayerHandler) New(c *fiber.Ctx) error {
	content, err := h.formContent(dto.PlayerForm{Status: models.StatusActive}, true, "")
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "player_form", "New player", content)
}

func (h *PlayerHandler) Create(c *fiber.Ctx) error {
	var form dto.PlayerForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	player, err := h.players.Create(middleware.Actor(c), &form)
	if err != nil {
		form.Password = ""
		content, cerr := h.formContent(form, true, "")
		if cerr != nil {
			return cerr
		}
		return h.render.FormError(c, "player_form", "New player", content, err)
	}
	return redirectWithFlash(c, "/players/"+player.ID.String(), "Player created.")
}

func (h *PlayerHandler) Show(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	player, err := h.players.Get(id)
	if err != nil {
		return serviceError(err)
	}
	reports, err := h.reports.ForPlayer(id)
	if err != nil {
		return err
	}
	transfers, err := h.transfers.ForPlayer(id)
	if err != nil {
		return err
	}
	notes, err := h.notes.ForPlayer(id)
	if err != nil {
		return err
	}

	return h.render.Page(c, fiber.StatusOK, "player_show", player.FullName, playerShowContent{
		Player:    player,
		Reports:   reports,
		Transfers: transfers,
		Notes:     notes,
	})
}

func playerToForm(p *models.User) dto.PlayerForm {
	form := dto.PlayerForm{
		Username: p.Username,
		Email:    p.Email,
		FullName: p.FullName,
		Country:  p.Country,
		Phone:    p.Phone,
		Status:   p.Status,
	}
	if prof := p.Profile; prof != nil {
		form.Position = prof.Position
		form.DateOfBirth = prof.DateOfBirth.Format("2006-01-02")
		form.HeightCm = prof.HeightCm
		form.WeightKg = prof.WeightKg
		form.PreferredFoot = prof.PreferredFoot
		form.MarketValue = prof.MarketValue
		form.Bio = prof.Bio
		if prof.CurrentClubID != nil {
			form.CurrentClubID = prof.CurrentClubID.String()
		}
	}
	return form
}

func (h *PlayerHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	player, err := h.players.Get(id)
	if err != nil {
		return serviceError(err)
	}

	content, err := h.formContent(playerToForm(player), false, id.String())
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "player_form", "Edit "+player.FullName, content)
}

func (h *PlayerHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.PlayerForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.players.Update(middleware.Actor(c), id, &form); err != nil {
		form.Password = ""
		content, cerr := h.formContent(form, false, id.String())
		if cerr != nil {
			return cerr
		}
		return h.render.FormError(c, "player_form", "Edit player", content, err)
	}
	return redirectWithFlash(c, "/players/"+id.String(), "Player updated.")
}

func (h *PlayerHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.players.Delete(middleware.Actor(c), id); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/players", "Player deleted.")
}

// Export streams the filtered player list as an Excel workbook.
func (h *PlayerHandler) Export(c *fiber.Ctx) error {
	var filter dto.PlayerFilter
	if err := c.QueryParser(&filter); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	buf, rows, err := h.export.PlayersXLSX(filter)
	if err != nil {
		return err
	}

	h.audit.Record(middleware.Actor(c), "export", "players", "", map[string]interface{}{
		"rows":     rows,
		"search":   filter.Search,
		"country":  filter.Country,
		"position": filter.Position,
	})

	filename := fmt.Sprintf("players-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (h *PlayerHandler) AddNote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.NoteForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	location := "/players/" + id.String()
	if _, err := h.notes.Add(middleware.Actor(c), id, form.Body); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return redirectWithFlash(c, location, capitalize(verr.Error()))
		}
		return serviceError(err)
	}
	return redirectWithFlash(c, location, "Note added.")
}

func (h *PlayerHandler) DeleteNote(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	noteID, err := parseID(c, "noteId")
	if err != nil {
		return err
	}
	if err := h.notes.Delete(middleware.Actor(c), id, noteID); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/players/"+id.String(), "Note deleted.")
}
