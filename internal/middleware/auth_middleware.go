package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bizdesk-api/internal/model"
	"bizdesk-api/internal/service"
	"bizdesk-api/internal/tenant"
	"bizdesk-api/pkg/jwt"
)

// Locals keys set by the auth middleware.
const (
	LocalUser     = "user"
	LocalCustomer = "customer"
	LocalScope    = "scope"
)

// BranchFinder resolves a branch inside the caller's tenant.
type BranchFinder interface {
	Get(ctx context.Context, sc tenant.Scope, id uuid.UUID) (*model.Branch, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", jwt.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", jwt.ErrInvalidToken
	}
	return parts[1], nil
}

// RequireAuth validates a staff token, checks the session is current and
// puts the tenant scope on the request. A selected branch (X-Branch-ID header
// or branch_id query) must belong to the tenant.
func RequireAuth(auth service.AuthService, branches BranchFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}
		user, err := auth.Authenticate(token)
		if err != nil {
			return err
		}

		sc := tenant.Scope{UserID: user.ID, CompanyID: user.CompanyID}
		if raw := selectedBranch(c); raw != "" && !strings.EqualFold(raw, "all") {
			id, err := uuid.Parse(raw)
			if err != nil {
				return service.Invalid("branch_id", "The selected branch_id is invalid.")
			}
			if _, err := branches.Get(c.UserContext(), sc, id); err != nil {
				return service.Invalid("branch_id", "The selected branch_id is invalid.")
			}
			sc.BranchID = &id
		}

		c.Locals(LocalUser, user)
		c.Locals(LocalScope, sc)
		c.SetUserContext(tenant.WithScope(c.UserContext(), sc))
		return c.Next()
	}
}

func selectedBranch(c *fiber.Ctx) string {
	if v := c.Get("X-Branch-ID"); v != "" {
		return v
	}
	return c.Query("branch_id")
}

// RequirePermission checks the authenticated staff member holds code.
func RequirePermission(code string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(LocalUser).(*model.Staff)
		if !ok {
			return jwt.ErrMissingToken
		}
		if !user.HasPermission(code) {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden: requires '"+code+"' permission")
		}
		return c.Next()
	}
}

// RequireCustomer validates a storefront token issued by social login.
func RequireCustomer(social service.SocialService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := BearerToken(c)
		if err != nil {
			return err
		}
		customer, err := social.Authenticate(token)
		if err != nil {
			return err
		}
		c.Locals(LocalCustomer, customer)
		return c.Next()
	}
}

// CurrentUser returns the staff member set by RequireAuth.
func CurrentUser(c *fiber.Ctx) *model.Staff {
	user, _ := c.Locals(LocalUser).(*model.Staff)
	return user
}

// CurrentCustomer returns the customer set by RequireCustomer.
func CurrentCustomer(c *fiber.Ctx) *model.Customer {
	customer, _ := c.Locals(LocalCustomer).(*model.Customer)
	return customer
}

// Scope returns the tenant scope set by RequireAuth.
func Scope(c *fiber.Ctx) (tenant.Scope, error) {
	sc, ok := c.Locals(LocalScope).(tenant.Scope)
	if !ok || !sc.Valid() {
		return tenant.Scope{}, tenant.ErrNoScope
	}
	return sc, nil
}
