package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bizdesk-api/internal/config"
	"bizdesk-api/internal/model"
	"bizdesk-api/internal/repository"
	"bizdesk-api/internal/server"
	"bizdesk-api/internal/service"
	"bizdesk-api/internal/ws"
	"bizdesk-api/pkg/database"
	"bizdesk-api/pkg/jwt"
	"bizdesk-api/pkg/logger"
	"bizdesk-api/pkg/oauth"
	"bizdesk-api/pkg/storage"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog := logger.NewForEnvironment(cfg.App.Env, cfg.Log.Level)
	if cfg.Log.Format != "" {
		zlog = logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stdout"})
	}
	defer zlog.Sync()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Database unavailable", zap.Error(err))
	}
	// Auto Migrate (use a dedicated migration tool once the schema settles)
	if err := db.AutoMigrate(model.All()...); err != nil {
		zlog.Fatal("Migration failed", zap.Error(err))
	}

	// 3. Storage, tokens, providers
	store, err := storage.New(cfg.Storage, zlog)
	if err != nil {
		zlog.Fatal("Storage unavailable", zap.Error(err))
	}
	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	providers := oauth.NewRegistry(cfg.Social)

	var defaultCompany uuid.UUID
	if cfg.Social.DefaultCompanyID != "" {
		if defaultCompany, err = uuid.Parse(cfg.Social.DefaultCompanyID); err != nil {
			zlog.Fatal("SOCIAL_DEFAULT_COMPANY_ID is not a uuid", zap.Error(err))
		}
	}
	var google service.IDTokenVerifier
	if cfg.Social.Google.ClientID != "" {
		google = oauth.GoogleIDTokenVerifier{ClientID: cfg.Social.Google.ClientID}
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zlog.Named("ws"))
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	companyRepo := repository.NewCompanyRepo()
	permissionRepo := repository.NewPermissionRepo(db)
	roleRepo := repository.NewRoleRepo(permissionRepo)
	userRepo := repository.NewUserRepo(db, roleRepo)
	customerRepo := repository.NewCustomerRepo(db)

	if err := permissionRepo.SeedDefaults(); err != nil {
		zlog.Warn("Failed to seed permissions", zap.Error(err))
	}

	resources := service.NewResources(service.Deps{
		DB:       db,
		Refs:     repository.NewReferenceRepo(),
		Store:    store,
		Notifier: wsHub,
		Logger:   zlog,
	}, companyRepo, roleRepo, repository.NewPaymentRepo())

	app := server.NewApp(server.Deps{
		AppName:     cfg.App.Name,
		FrontendURL: cfg.App.FrontendURL,
		Auth:        service.NewAuthService(userRepo, tokens, zlog),
		Social:      service.NewSocialService(db, customerRepo, providers, google, tokens, defaultCompany, wsHub, zlog),
		Companies:   service.NewCompanyService(db, companyRepo, wsHub, zlog),
		Resources:   resources,
		Permissions: permissionRepo,
		Hub:         wsHub,
		Logger:      zlog,
	})
	if cfg.Storage.Driver == "local" {
		app.Static(cfg.Storage.PublicURL, cfg.Storage.LocalDir)
	}

	// 6. Graceful Shutdown
	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			zlog.Panic("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	wsHub.Stop()
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited")
}
