package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/scoutline/agency-admin/internal/models"
	"github.com/scoutline/agency-admin/internal/permissions"
	"github.com/scoutline/agency-admin/internal/services"
)

const (
	localAdmin       = "admin"
	localPermissions = "permissions"
)

// sessionAdminID extracts the admin UUID from the validated session token.
func sessionAdminID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// sessionVersion reads the sv claim. Tokens issued before the claim existed
// count as version 0.
func sessionVersion(c *fiber.Ctx) int {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return -1
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return -1
	}
	v, ok := claims["sv"].(float64)
	if !ok {
		return 0
	}
	return int(v)
}

// CurrentAdmin returns the admin loaded by LoadAdmin, or nil.
func CurrentAdmin(c *fiber.Ctx) *models.AdminUser {
	admin, _ := c.Locals(localAdmin).(*models.AdminUser)
	return admin
}

// CurrentPermissions returns the effective permissions of the current admin.
// Outside a session it is empty.
func CurrentPermissions(c *fiber.Ctx) permissions.Set {
	if set, ok := c.Locals(localPermissions).(permissions.Set); ok {
		return set
	}
	return permissions.Set{}
}

// Actor describes the current admin for audit rows.
func Actor(c *fiber.Ctx) services.Actor {
	actor := services.Actor{IP: c.IP()}
	if admin := CurrentAdmin(c); admin != nil {
		actor.AdminID = admin.ID
		actor.Username = admin.Username
	}
	return actor
}
