// Package app wires configuration, storage, services and HTTP together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"momentum_backend/database"
	"momentum_backend/internal/auth"
	"momentum_backend/internal/config"
	"momentum_backend/internal/email"
	"momentum_backend/internal/gateway"
	"momentum_backend/internal/handlers"
	"momentum_backend/internal/logger"
	"momentum_backend/internal/middleware"
	"momentum_backend/internal/models"
	"momentum_backend/internal/providers/llm"
	"momentum_backend/internal/repositories"
	"momentum_backend/internal/routes"
	"momentum_backend/internal/services"
	"momentum_backend/internal/validator"
	"momentum_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Run boots the application and blocks until shutdown.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	if err := seedFirstAdmin(db, cfg); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := seedProducts(db); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	router, worker := SetupRouter(db, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go worker.Start(ctx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// SetupRouter builds the full HTTP stack and the background worker. Split
// from Run so tests can assemble the application against their own DB.
func SetupRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, *workers.SubscriptionWorker) {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	promoRepo := repositories.NewPromoCodeRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	logRepo := repositories.NewActionLogRepository(db)

	mailer := email.NewSMTPProvider(cfg)
	gatewayClient := gateway.NewClient(cfg)
	aiProvider := llm.NewDeepSeekClient(cfg)

	entitlementSvc := services.NewEntitlementService(userRepo)
	promoSvc := services.NewPromoCodeService(promoRepo, mailer)
	paymentSvc := services.NewPaymentService(gatewayClient, userRepo, productRepo, promoSvc, entitlementSvc)

	container := &services.ServiceContainer{
		Auth:        services.NewAuthService(userRepo, promoSvc, logRepo, mailer),
		User:        services.NewUserService(userRepo),
		Entitlement: entitlementSvc,
		PromoCode:   promoSvc,
		Product:     services.NewProductService(productRepo),
		Payment:     paymentSvc,
		AI:          services.NewAIService(aiProvider, entitlementSvc, userRepo, contentRepo, logRepo),
		Content:     services.NewContentService(contentRepo),
		Admin:       services.NewAdminService(userRepo, logRepo, logRepo, paymentSvc, entitlementSvc),
	}

	appHandlers := handlers.NewAppHandlers(container, logRepo, validator.New())

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.CORSMiddleware(),
	)

	routes.SetupRoutes(router, appHandlers)

	worker := workers.NewSubscriptionWorker(userRepo, entitlementSvc)
	return router, worker
}

// seedFirstAdmin creates the back-office account from configuration if it
// does not exist yet.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.FirstAdminEmail == "" || cfg.FirstAdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", cfg.FirstAdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.FirstAdminPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:               cfg.FirstAdminEmail,
		PasswordHash:        hash,
		FirstName:           "Admin",
		LastName:            "Admin",
		Role:                models.UserRoleAdmin,
		FreeGenerationsLeft: models.FreeGenerationsGrant,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.Info("seeded first admin account", "email", cfg.FirstAdminEmail)
	return nil
}

// seedProducts inserts the default subscription plans once.
func seedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []models.Product{
		{
			Name:        "Momentum Pro Monthly",
			Description: "Unlimited AI content generation, billed monthly",
			Price:       1990,
			Unit:        "monthly",
			SKU:         "momentum-pro-monthly",
		},
		{
			Name:        "Momentum Pro Yearly",
			Description: "Unlimited AI content generation, billed yearly",
			Price:       19900,
			Unit:        "yearly",
			SKU:         "momentum-pro-yearly",
		},
	}
	if err := db.Create(&plans).Error; err != nil {
		return err
	}

	logger.Info("seeded default products", "count", len(plans))
	return nil
}
