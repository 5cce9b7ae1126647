package handler

import (
	"github.com/gofiber/fiber/v2"

	"bizdesk-api/internal/repository"
)

// RoleHandler serves the permission catalog used by the role editor.
// Roles themselves go through the generic resource handler.
type RoleHandler struct {
	permissionRepo repository.PermissionRepository
}

func NewRoleHandler(permissionRepo repository.PermissionRepository) *RoleHandler {
	return &RoleHandler{permissionRepo: permissionRepo}
}

// GetPermissions returns every permission grouped by label
// GET /api/v1/permissions
func (h *RoleHandler) GetPermissions(c *fiber.Ctx) error {
	groups, err := h.permissionRepo.Grouped()
	if err != nil {
		return failure(c, fiber.StatusInternalServerError, "Failed to fetch permissions")
	}
	return success(c, fiber.StatusOK, "", groups)
}
