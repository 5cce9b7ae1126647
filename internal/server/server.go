// Package server assembles the fiber application: middleware, routes and the live event socket.
package server

import (
	"reflect"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bizdesk-api/internal/handler"
	"bizdesk-api/internal/middleware"
	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/service"
	"bizdesk-api/internal/ws"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	AppName     string
	FrontendURL string
	Auth        service.AuthService
	Social      service.SocialService
	Companies   service.CompanyService
	Resources   *service.Resources
	Permissions repository.PermissionRepository
	Hub         *ws.Hub
	Logger      *zap.Logger
}

var decoderOnce sync.Once

// registerDecoders teaches the form parser about money and calendar dates
// so multipart bodies (photo uploads) bind like JSON ones.
func registerDecoders() {
	decoderOnce.Do(func() {
		fiber.SetParserDecoder(fiber.ParserConfig{
			IgnoreUnknownKeys: true,
			ZeroEmpty:         true,
			ParserType: []fiber.ParserType{
				{Customtype: decimal.Decimal{}, Converter: func(s string) reflect.Value {
					if s == "" {
						return reflect.ValueOf(decimal.Zero)
					}
					d, err := decimal.NewFromString(s)
					if err != nil {
						return reflect.Value{}
					}
					return reflect.ValueOf(d)
				}},
				{Customtype: model.Date{}, Converter: func(s string) reflect.Value {
					if s == "" {
						return reflect.ValueOf(model.Date{})
					}
					d, err := model.ParseDate(s)
					if err != nil {
						return reflect.Value{}
					}
					return reflect.ValueOf(d)
				}},
			},
		})
	})
}

func NewApp(d Deps) *fiber.App {
	registerDecoders()

	app := fiber.New(fiber.Config{
		AppName:      d.AppName,
		ErrorHandler: handler.ErrorHandler,
		BodyLimit:    8 << 20,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(d.Logger))
	app.Use(cors.New())

	authHandler := handler.NewAuthHandler(d.Auth)
	socialHandler := handler.NewSocialHandler(d.Social, d.FrontendURL, d.Logger)
	companyHandler := handler.NewCompanyHandler(d.Companies)
	roleHandler := handler.NewRoleHandler(d.Permissions)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	social := auth.Group("/social")
	social.Post("/google/token", socialHandler.GoogleToken)
	social.Get("/:provider/redirect", socialHandler.Redirect)
	social.Get("/:provider/callback", socialHandler.Callback)

	// ============ CUSTOMER ROUTES ============
	api.Get("/customer/me", middleware.RequireCustomer(d.Social), socialHandler.Me)

	// ============ STAFF ROUTES ============
	requireAuth := middleware.RequireAuth(d.Auth, d.Resources.Branches)
	auth.Get("/me", requireAuth, authHandler.Me)
	auth.Post("/change-password", requireAuth, authHandler.ChangePassword)

	// Auth is attached per route so unknown paths under /api/v1 still 404
	api.Get("/permissions", requireAuth, roleHandler.GetPermissions)
	api.Get("/company", requireAuth, middleware.RequirePermission(model.PermissionCode("company", model.ActionView)), companyHandler.Show)
	api.Put("/company", requireAuth, middleware.RequirePermission(model.PermissionCode("company", model.ActionUpdate)), companyHandler.Update)

	r := d.Resources
	handler.NewResourceHandler(r.Branches).Register(api, "/branches", requireAuth)
	handler.NewResourceHandler(r.Staff).Register(api, "/staff", requireAuth)
	handler.NewResourceHandler(r.Roles).Register(api, "/roles", requireAuth)
	handler.NewResourceHandler(r.Customers).Register(api, "/customers", requireAuth)
	handler.NewResourceHandler(r.Suppliers).Register(api, "/suppliers", requireAuth)
	handler.NewResourceHandler(r.ExpenseCategories).Register(api, "/expense-categories", requireAuth)
	handler.NewResourceHandler(r.Expenses).Register(api, "/expenses", requireAuth)
	handler.NewResourceHandler(r.PaymentMethods).Register(api, "/payment-methods", requireAuth)
	handler.NewResourceHandler(r.Deposits).Register(api, "/deposits", requireAuth)
	handler.NewResourceHandler(r.SupplierPayments).Register(api, "/supplier-payments", requireAuth)
	handler.NewResourceHandler(r.Banners).Register(api, "/banners", requireAuth)
	handler.NewResourceHandler(r.FAQs).Register(api, "/faqs", requireAuth)
	handler.NewResourceHandler(r.Vacations).Register(api, "/vacations", requireAuth)

	// WebSocket Route: browsers cannot set headers, so the token rides in the query
	if d.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(c) {
				return c.SendStatus(fiber.StatusUpgradeRequired)
			}
			user, err := d.Auth.Authenticate(c.Query("token"))
			if err != nil {
				return err
			}
			c.Locals(middleware.LocalUser, user)
			return c.Next()
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			user, ok := c.Locals(middleware.LocalUser).(*model.Staff)
			if !ok {
				return
			}
			client := &ws.Client{CompanyID: user.CompanyID, UserID: user.ID, Conn: c}
			d.Hub.Register(client)
			defer d.Hub.Unregister(client)

			for {
				// Keep alive loop; clients only listen
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}

	return app
}
