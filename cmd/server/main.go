package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vendor-hub.backend/internal/config"
	"vendor-hub.backend/internal/infrastructure/jobs"
	"vendor-hub.backend/internal/infrastructure/notify"
	"vendor-hub.backend/internal/infrastructure/repositories"
	"vendor-hub.backend/internal/infrastructure/risk"
	"vendor-hub.backend/internal/interfaces/http/handlers"
	"vendor-hub.backend/internal/interfaces/http/middleware"
	"vendor-hub.backend/internal/usecases"
	"vendor-hub.backend/pkg/jwt"
	"vendor-hub.backend/pkg/logger"
	"vendor-hub.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	verificationRepo := repositories.NewVerificationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize Session Store
	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// External services
	riskProvider := risk.NewProviderClient(cfg.Risk)
	dispatcher := notify.NewHTTPDispatcher(cfg.Notify)

	// The escalation target. Escalation routes are registered either way;
	// an unset manager makes them fail with a precondition error.
	managerID := uuid.Nil
	if cfg.Moderation.ManagerID != "" {
		managerID, err = uuid.Parse(cfg.Moderation.ManagerID)
		if err != nil {
			return fmt.Errorf("invalid MODERATION_MANAGER_ID: %w", err)
		}
	}

	// Initialize usecases
	notifierUsecase := usecases.NewNotifierUsecase(notificationRepo, dispatcher)
	authUsecase := usecases.NewAuthUsecase(userRepo, auditRepo, jwtService, sessionStore)
	profileUsecase := usecases.NewProfileUsecase(profileRepo)
	assignmentUsecase := usecases.NewAssignmentUsecase(profileRepo)
	moderationUsecase := usecases.NewModerationUsecase(profileRepo, auditRepo, verificationRepo, uow, notifierUsecase)
	appealUsecase := usecases.NewAppealUsecase(profileRepo, auditRepo, uow, notifierUsecase)
	verificationUsecase := usecases.NewVerificationUsecase(profileRepo, verificationRepo, auditRepo, uow)
	escalationUsecase := usecases.NewEscalationUsecase(profileRepo, userRepo, auditRepo, notifierUsecase, managerID)
	riskReviewUsecase := usecases.NewRiskReviewUsecase(profileRepo, auditRepo, uow, notifierUsecase, riskProvider)
	auditUsecase := usecases.NewAuditUsecase(auditRepo)
	purgeUsecase := usecases.NewPurgeUsecase(userRepo, profileRepo, verificationRepo, notificationRepo, auditRepo, uow)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	profileHandler := handlers.NewProfileHandler(profileUsecase, appealUsecase, verificationUsecase)
	moderationHandler := handlers.NewModerationHandler(assignmentUsecase, moderationUsecase, appealUsecase, verificationUsecase)
	queueHandler := handlers.NewQueueHandler(assignmentUsecase)
	escalationHandler := handlers.NewEscalationHandler(escalationUsecase)
	riskHandler := handlers.NewRiskHandler(riskReviewUsecase)
	auditHandler := handlers.NewAuditHandler(auditUsecase)
	notificationHandler := handlers.NewNotificationHandler(notifierUsecase)
	adminHandler := handlers.NewAdminHandler(authUsecase, purgeUsecase)

	// Auth middleware
	authMiddleware := middleware.AuthMiddleware(jwtService, sessionStore, userRepo)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assessmentJob := jobs.NewRiskAssessmentJob(profileRepo, riskProvider, cfg.Risk)
	go assessmentJob.Start(ctx)

	retryJob := jobs.NewNotificationRetryJob(notificationRepo, notifierUsecase, cfg.Moderation)
	go retryJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		profileHandler:      profileHandler,
		moderationHandler:   moderationHandler,
		queueHandler:        queueHandler,
		escalationHandler:   escalationHandler,
		riskHandler:         riskHandler,
		auditHandler:        auditHandler,
		notificationHandler: notificationHandler,
		adminHandler:        adminHandler,
		authMiddleware:      authMiddleware,
	})

	// Print all registered routes for debugging
	log.Println("📋 Registered Routes:")
	for _, route := range r.Routes() {
		log.Printf("   %s %s", route.Method, route.Path)
	}

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		assessmentJob.Stop()
		retryJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Vendor-Hub Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
