package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/scoutline/agency-admin/internal/dto"
	"github.com/scoutline/agency-admin/internal/middleware"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

type AdminHandler struct {
	admins *services.AdminService
	roles  *permissions.Registry
	render *Renderer
}

func NewAdminHandler(admins *services.AdminService, roles *permissions.Registry, render *Renderer) *AdminHandler {
	return &AdminHandler{admins: admins, roles: roles, render: render}
}

type adminListContent struct {
	Admins []models.AdminUser
}

type adminFormContent struct {
	Form      dto.AdminForm
	IsNew     bool
	Action    string
	ID        string
	Roles     []string
	Resources []permissions.Resource
	Actions   []permissions.Action
}

func (h *AdminHandler) formContent(form dto.AdminForm, id string) adminFormContent {
	content := adminFormContent{
		Form:      form,
		IsNew:     id == "",
		Action:    "/admins",
		ID:        id,
		Roles:     h.roles.Names(),
		Resources: permissions.Resources,
		Actions:   permissions.Actions,
	}
	if id != "" {
		content.Action = "/admins/" + id
	}
	return content
}

func (h *AdminHandler) List(c *fiber.Ctx) error {
	admins, err := h.admins.List()
	if err != nil {
		return err
	}
	return h.render.Page(c, fiber.StatusOK, "admins_list", "Staff accounts", adminListContent{Admins: admins})
}

func (h *AdminHandler) New(c *fiber.Ctx) error {
	return h.render.Page(c, fiber.StatusOK, "admin_form", "New staff account", h.formContent(dto.AdminForm{Active: true}, ""))
}

func (h *AdminHandler) Create(c *fiber.Ctx) error {
	var form dto.AdminForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.admins.Create(middleware.Actor(c), &form); err != nil {
		form.Password = ""
		return h.render.FormError(c, "admin_form", "New staff account", h.formContent(form, ""), err)
	}
	return redirectWithFlash(c, "/admins", "Staff account created.")
}

func (h *AdminHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	admin, err := h.admins.Get(id)
	if err != nil {
		return serviceError(err)
	}
	stored, err := h.admins.Permissions(admin)
	if err != nil {
		return err
	}

	form := dto.AdminForm{
		Username:    admin.Username,
		Email:       admin.Email,
		FullName:    admin.FullName,
		Role:        admin.Role,
		Active:      admin.Active,
		Permissions: stored.Keys(),
	}
	return h.render.Page(c, fiber.StatusOK, "admin_form", "Edit "+admin.Username, h.formContent(form, id.String()))
}

func (h *AdminHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var form dto.AdminForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if _, err := h.admins.Update(middleware.Actor(c), id, &form); err != nil {
		form.Password = ""
		return h.render.FormError(c, "admin_form", "Edit staff account", h.formContent(form, id.String()), err)
	}
	return redirectWithFlash(c, "/admins", "Staff account updated.")
}

func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.admins.Delete(middleware.Actor(c), id); err != nil {
		return serviceError(err)
	}
	return redirectWithFlash(c, "/admins", "Staff account deleted.")
}
