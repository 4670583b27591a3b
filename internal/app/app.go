package app

import (
	"context"
	"fmt"
	"time"

	"cardbox_backend/database"
	"cardbox_backend/internal/auth"
	"cardbox_backend/internal/billing"
	"cardbox_backend/internal/config"
	"cardbox_backend/internal/handlers"
	"cardbox_backend/internal/identity"
	"cardbox_backend/internal/logger"
	"cardbox_backend/internal/middleware"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/routes"
	"cardbox_backend/internal/services"
	"cardbox_backend/internal/validator"
	"cardbox_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}

	verifier, err := identity.NewOIDCVerifier(context.Background(), cfg.Identity.Issuer, cfg.Identity.ClientID)
	if err != nil {
		logger.Fatal("Failed to initialize identity provider", "error", err)
	}

	tokens, err := auth.NewTokenService(cfg.Session.Secret, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	if err != nil {
		logger.Fatal("Failed to initialize session tokens", "error", err)
	}

	gateway := billing.NewStripeGateway(cfg.Billing.SecretKey)

	ginRouter := SetupRouter(cfg, gormDB, verifier, tokens, gateway)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workers.NewSubscriptionWorker(gormDB).Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, verifier identity.Verifier, tokens *auth.TokenService, gateway billing.Gateway) *gin.Engine {
	serviceContainer := initializeServices(cfg, verifier, tokens, gateway)
	appHandlers := initializeHandlers(cfg, serviceContainer, tokens)

	ginRouter := initializeGinRouter(gormDB, tokens)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, verifier identity.Verifier, tokens *auth.TokenService, gateway billing.Gateway) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	cardRepo := repositories.NewNameCardRepository()
	portfolioRepo := repositories.NewPortfolioRepository()
	challengeRepo := repositories.NewChallengeRepository()
	submissionRepo := repositories.NewSubmissionRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()

	return &services.ServiceContainer{
		SessionService:    services.NewSessionService(userRepo, verifier, tokens),
		UserService:       services.NewUserService(userRepo),
		NameCardService:   services.NewNameCardService(cardRepo),
		PortfolioService:  services.NewPortfolioService(portfolioRepo),
		ChallengeService:  services.NewChallengeService(challengeRepo),
		SubmissionService: services.NewSubmissionService(submissionRepo, challengeRepo, userRepo, cardRepo),
		BillingService:    services.NewBillingService(gateway, userRepo, subscriptionRepo, cfg),
	}
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer, tokens *auth.TokenService) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	cookies := &auth.CookieWriter{
		Domain: cfg.Server.CookieDomain,
		Secure: cfg.Server.Env == "production",
	}

	return &handlers.AppHandlers{
		SessionHandler:    handlers.NewSessionHandler(baseHandler, container.SessionService, tokens, cookies),
		UserHandler:       handlers.NewUserHandler(baseHandler, container.UserService),
		NameCardHandler:   handlers.NewNameCardHandler(baseHandler, container.NameCardService),
		PortfolioHandler:  handlers.NewPortfolioHandler(baseHandler, container.PortfolioService),
		ChallengeHandler:  handlers.NewChallengeHandler(baseHandler, container.ChallengeService),
		SubmissionHandler: handlers.NewSubmissionHandler(baseHandler, container.SubmissionService),
		BillingHandler:    handlers.NewBillingHandler(baseHandler, container.BillingService),
	}
}

func initializeGinRouter(db *gorm.DB, tokens *auth.TokenService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	router.Use(middleware.AttachIdentity(tokens))
	return router
}
