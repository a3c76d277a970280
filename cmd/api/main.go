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
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-survey-api/internal/config"
	"github.com/noah-isme/gema-survey-api/internal/database"
	"github.com/noah-isme/gema-survey-api/internal/handler"
	"github.com/noah-isme/gema-survey-api/internal/middleware"
	"github.com/noah-isme/gema-survey-api/internal/models"
	"github.com/noah-isme/gema-survey-api/internal/repository"
	"github.com/noah-isme/gema-survey-api/internal/router"
	"github.com/noah-isme/gema-survey-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()
	ctx := context.Background()

	repos, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open document store: %v", err)
	}
	defer closeStore()

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient == nil {
		logger.Warn().Msg("redis not configured, caching and token revocation disabled")
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	events := service.NewNATSEventPublisher(natsConn, cfg.EventsChannel, logger)
	resolver := service.NewStudentResolver(repos.Students, logger)
	answers := service.NewAnswerValidator(logger)

	surveyService := service.NewSurveyService(repos.Surveys, repos.Questions, repos.Responses, logger)
	responseService := service.NewResponseService(repos.Surveys, repos.Questions, repos.Responses, resolver, answers, validate, redisClient, events, logger)
	statsService := service.NewSurveyStatsService(repos.Responses, redisClient, cfg.StatsCacheTTL, logger)
	analyticsService := service.NewUserAnalyticsService(repos.Surveys, repos.Responses, redisClient, cfg.StatsCacheTTL, logger)
	sessionService := service.NewSessionService(redisClient, logger)
	importService := service.NewSurveyImportService(repos.Surveys, repos.Questions, validate, redisClient, cfg.ImportEnabled, cfg.ImportToken, logger)

	surveyHandler := handler.NewSurveyHandler(surveyService, responseService, statsService, handler.SurveyHandlerOptions{
		LoginURL:         cfg.LoginURL,
		SubmitRateLimit:  cfg.SubmitRateLimit,
		SubmitRateWindow: cfg.SubmitRateWindow,
	}, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, cfg.LoginURL, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, cfg.LoginURL, logger)
	importHandler := handler.NewImportHandler(importService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		SurveyHandler:    surveyHandler,
		AnalyticsHandler: analyticsHandler,
		SessionHandler:   sessionHandler,
		ImportHandler:    importHandler,
		AuthMiddleware: middleware.Authenticate(middleware.JWTConfig{
			Secret:      cfg.JWTSecret,
			LoginURL:    cfg.LoginURL,
			Revocations: sessionService,
		}),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("driver", cfg.DatabaseDriver).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, cfg config.Config) (repository.Repositories, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return repository.Repositories{}, nil, err
		}
		return repository.NewMongoRepositories(db), func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		connect := database.ConnectPostgres
		if cfg.DatabaseDriver == config.DriverSQLite {
			connect = database.ConnectSQLite
		}
		db, err := connect(cfg.DatabaseURL)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		if err := db.AutoMigrate(&models.Survey{}, &models.Question{}, &models.Response{}, &models.Student{}); err != nil {
			return repository.Repositories{}, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewGormRepositories(db), closeDB, nil
	}
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
