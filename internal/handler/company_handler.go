package handler

import (
	"github.com/gofiber/fiber/v2"

	"bizdesk-api/internal/middleware"
	"bizdesk-api/internal/service"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Show returns the caller's company settings
// GET /api/v1/company
func (h *CompanyHandler) Show(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}
	company, err := h.companyService.Get(c.UserContext(), sc)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "", company)
}

// Update changes the caller's company settings
// PUT /api/v1/company
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	sc, err := middleware.Scope(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, fiber.StatusBadRequest, "Invalid JSON")
	}
	company, err := h.companyService.Update(c.UserContext(), sc, &req)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Company updated successfully", company)
}
