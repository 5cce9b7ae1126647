package handler

import (
	"github.com/gofiber/fiber/v2"

	"bizdesk-api/internal/middleware"
	"bizdesk-api/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles staff authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid JSON")
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Login successful", response)
}

// Me returns the signed in staff member with their permissions
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return failure(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return success(c, fiber.StatusOK, "", fiber.Map{
		"user":        user,
		"permissions": user.Perms,
	})
}

// ChangePassword handles password change; other sessions are signed out
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return failure(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req service.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	if err := h.authService.ChangePassword(user.ID, &req); err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Password updated successfully", nil)
}
