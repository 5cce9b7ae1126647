package handler

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bizdesk-api/internal/middleware"
	"bizdesk-api/internal/service"
)

const stateCookie = "oauth_state"

type SocialHandler struct {
	socialService service.SocialService
	frontendURL   string
	logger        *zap.Logger
}

func NewSocialHandler(socialService service.SocialService, frontendURL string, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{socialService: socialService, frontendURL: frontendURL, logger: logger}
}

// Redirect sends the browser to the provider's consent page
// GET /api/v1/auth/social/:provider/redirect
func (h *SocialHandler) Redirect(c *fiber.Ctx) error {
	state := uuid.NewString()
	target, err := h.socialService.AuthURL(c.Params("provider"), state)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(target, fiber.StatusFound)
}

// Callback finishes the provider flow and hands the token to the frontend.
// Failures never render JSON; the frontend gets ?error=1 instead.
// GET /api/v1/auth/social/:provider/callback
func (h *SocialHandler) Callback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	state := c.Cookies(stateCookie)
	c.ClearCookie(stateCookie)

	if state == "" || state != c.Query("state") || c.Query("code") == "" {
		h.logger.Warn("Rejected social callback", zap.String("provider", provider))
		return c.Redirect(h.frontend(url.Values{"error": {"1"}}), fiber.StatusFound)
	}

	login, err := h.socialService.Callback(c.UserContext(), provider, c.Query("code"))
	if err != nil {
		h.logger.Warn("Social login failed", zap.String("provider", provider), zap.Error(err))
		return c.Redirect(h.frontend(url.Values{"error": {"1"}}), fiber.StatusFound)
	}
	return c.Redirect(h.frontend(url.Values{"token": {login.Token}}), fiber.StatusFound)
}

type googleTokenRequest struct {
	IDToken string `json:"id_token"`
}

// GoogleToken signs a customer in with an ID token from Google Sign-In
// POST /api/v1/auth/social/google/token
func (h *SocialHandler) GoogleToken(c *fiber.Ctx) error {
	var req googleTokenRequest
	if err := c.BodyParser(&req); err != nil || req.IDToken == "" {
		return service.Invalid("id_token", "The id_token field is required.")
	}
	login, err := h.socialService.LoginWithGoogleIDToken(c.UserContext(), req.IDToken)
	if err != nil {
		return respondError(c, err)
	}
	return success(c, fiber.StatusOK, "Login successful", login)
}

// Me returns the signed in customer
// GET /api/v1/customer/me
func (h *SocialHandler) Me(c *fiber.Ctx) error {
	customer := middleware.CurrentCustomer(c)
	if customer == nil {
		return failure(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return success(c, fiber.StatusOK, "", customer)
}

func (h *SocialHandler) frontend(params url.Values) string {
	return h.frontendURL + "/auth/social/callback?" + params.Encode()
}
