package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/coursehub-api/internal/auth"
	"github.com/noah-isme/coursehub-api/internal/config"
	"github.com/noah-isme/coursehub-api/internal/database"
	"github.com/noah-isme/coursehub-api/internal/events"
	"github.com/noah-isme/coursehub-api/internal/handler"
	"github.com/noah-isme/coursehub-api/internal/middleware"
	"github.com/noah-isme/coursehub-api/internal/observability"
	"github.com/noah-isme/coursehub-api/internal/repository"
	"github.com/noah-isme/coursehub-api/internal/router"
	"github.com/noah-isme/coursehub-api/internal/service"
	"github.com/noah-isme/coursehub-api/internal/storage"
	"github.com/noah-isme/coursehub-api/internal/upload"
	cloud "github.com/noah-isme/coursehub-api/pkg/cloudinary"
)

// bodyLimit leaves room for multipart framing around a maximum-size file.
const bodyLimit = 55 * 1024 * 1024

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to access database handle")
	}
	defer sqlDB.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := database.ConnectRedis(startupCtx, cfg.RedisURL)
	cancelStartup()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if redisClient != nil {
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, course list cache disabled")
	}

	var publisher events.Publisher = events.Nop{}
	natsConn, err := events.ConnectNATS(cfg.NATSURL, cfg.AppName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to nats")
	}
	if natsConn != nil {
		defer natsConn.Drain()
		publisher = events.NewNATSPublisher(natsConn, cfg.NATSSubjectPrefix, logger)
	}

	fileStorage, err := newFileStorage(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("failed to create file storage")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	policy := upload.NewPolicy(cfg.UploadMaxBytes())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	courseCache := service.NewCourseListCache(redisClient, cfg.CourseCacheTTL, logger)
	activityService := service.NewActivityService(activityRepo, publisher, logger)
	authService := service.NewAuthService(userRepo, tokens, validate, logger)
	courseService := service.NewCourseService(courseRepo, chapterRepo, materialRepo, courseCache, activityService, validate, logger)
	materialService := service.NewMaterialService(materialRepo, courseRepo, chapterRepo, fileStorage, policy, courseCache, activityService, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, courseRepo, courseCache, activityService, validate, logger)
	submissionService := service.NewSubmissionService(assignmentRepo, submissionRepo, fileStorage, policy, activityService, logger)
	seedService, err := service.NewSeedService(courseRepo, courseCache, cfg.SeedEnabled, cfg.SeedToken, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create seed service")
	}

	guards := handler.Guards{
		Authenticate:     middleware.Authenticate(tokens),
		RequireAdmin:     middleware.RequireAdmin(),
		MaterialIntake:   middleware.FileIntake(policy, "file", "material"),
		SubmissionIntake: middleware.FileIntake(policy, "file", "submission"),
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    bodyLimit,
		ErrorHandler: handler.ErrorHandler(logger),
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	app.Get("/metrics", observability.MetricsHandler(cfg.MetricsToken))
	if cfg.StorageDriver == "local" {
		app.Static("/uploads", cfg.UploadDir, fiber.Static{Download: true})
	}
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, guards, logger),
		MaterialHandler:   handler.NewMaterialHandler(materialService, guards, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, guards, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, guards, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, guards, logger),
		SeedHandler:       handler.NewSeedHandler(seedService, logger),
		AuthRateLimit:     middleware.RateLimit("auth", cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow),
		Database:          sqlDB,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func newFileStorage(cfg config.Config, logger zerolog.Logger) (service.FileStorage, error) {
	if cfg.StorageDriver == "cloudinary" {
		return cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
	}
	return storage.NewLocal(cfg.UploadDir, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
