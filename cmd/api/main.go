package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/examgate-go-api/internal/config"
	"github.com/noah-isme/examgate-go-api/internal/database"
	"github.com/noah-isme/examgate-go-api/internal/handler"
	"github.com/noah-isme/examgate-go-api/internal/middleware"
	"github.com/noah-isme/examgate-go-api/internal/models"
	"github.com/noah-isme/examgate-go-api/internal/repository"
	"github.com/noah-isme/examgate-go-api/internal/router"
	"github.com/noah-isme/examgate-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.AppUser{},
		&models.Institution{},
		&models.Professor{},
		&models.Student{},
		&models.Test{},
		&models.TestRelease{},
		&models.TestReleaseSite{},
		&models.TestResult{},
		&models.AuditEntry{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSUrl != "" {
		natsConn, err = nats.Connect(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewAppUserRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	testRepo := repository.NewTestRepository(db)
	releaseRepo := repository.NewReleaseRepository(db)
	siteRepo := repository.NewReleaseSiteRepository(db)
	resultRepo := repository.NewResultRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	scopeService := service.NewScopeService(userRepo, institutionRepo, professorRepo, redisClient, cfg.ScopeCacheTTL, logger)
	auditService := service.NewAuditService(auditRepo, logger)
	events := service.NewEventPublisher(natsConn, cfg.EventSubject, logger)
	releaseService := service.NewReleaseService(releaseRepo, siteRepo, testRepo, resultRepo, validate, auditService, events, logger)
	catalogService := service.NewCatalogService(testRepo, studentRepo, professorRepo, institutionRepo, logger)

	releaseHandler := handler.NewReleaseHandler(releaseService, catalogService, scopeService, auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ReleaseHandler: releaseHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
