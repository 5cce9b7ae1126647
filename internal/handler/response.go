package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bizdesk-api/internal/service"
	"bizdesk-api/internal/tenant"
	"bizdesk-api/pkg/jwt"
	"bizdesk-api/pkg/oauth"
)

// Response is the success envelope.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the error envelope. Errors is set on validation failures only.
type ErrorResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: "success", Message: message, Data: data})
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Status: "error", Message: message})
}

// respondError maps service errors onto HTTP statuses. Raw persistence errors
// were logged where they happened; only the sanitized message leaves the process.
func respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Status:  "error",
			Message: verr.Error(),
			Errors:  verr.Errors,
		})
	}
	var perr *service.PersistenceError
	if errors.As(err, &perr) {
		return failure(c, fiber.StatusInternalServerError, perr.Message())
	}

	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, oauth.ErrUnknownProvider):
		return failure(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return failure(c, fiber.StatusForbidden, "You are not allowed to perform this action.")
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserInactive),
		errors.Is(err, service.ErrSessionExpired), errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken), errors.Is(err, tenant.ErrNoScope):
		return failure(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrSocialDisabled):
		return failure(c, fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, oauth.ErrNoEmail), errors.Is(err, oauth.ErrInvalidIDToken):
		return failure(c, fiber.StatusUnauthorized, err.Error())
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return failure(c, ferr.Code, ferr.Message)
	}
	return failure(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
}

// ErrorHandler is installed on the app so errors returned by middleware share the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
