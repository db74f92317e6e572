package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/gracechapel/ministry-api/configs"
	"github.com/gracechapel/ministry-api/internal/api"
	"github.com/gracechapel/ministry-api/internal/api/handlers"
	"github.com/gracechapel/ministry-api/internal/api/middleware"
	"github.com/gracechapel/ministry-api/internal/cache"
	"github.com/gracechapel/ministry-api/internal/database"
	job "github.com/gracechapel/ministry-api/internal/jobs"
	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/publisher"
	"github.com/gracechapel/ministry-api/internal/queue"
	"github.com/gracechapel/ministry-api/internal/repository"
	"github.com/gracechapel/ministry-api/internal/service"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.Open(ctx, cfg.PostgresURI)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer closeDB(db)

	if cfg.MigrateOnStart {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	permissionCache, closeCache := newPermissionCache(ctx, cfg)
	defer closeCache()

	r2Service, err := service.NewR2Service(ctx, cfg.R2)
	if err != nil {
		slog.Error("failed to configure object storage", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	postRepo := repository.NewPostRepository(db)
	postPlatformRepo := repository.NewPostPlatformRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	prayerPointRepo := repository.NewPrayerPointRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	eventRepo := repository.NewEventRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	prophecyRepo := repository.NewProphecyRepository(db)
	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	activityService := service.NewActivityService(activityRepo)
	tokenService := service.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	permissionService := service.NewPermissionService(permissionRepo, permissionCache)
	authService := service.NewAuthService(userRepo, tokenService, activityService)
	userService := service.NewUserService(userRepo, activityService)
	accountService := service.NewSocialAccountService(socialAccountRepo, postPlatformRepo, activityService, cfg.EncryptionKey)
	postService := service.NewPostService(repository.NewTransactor(db), postRepo, postPlatformRepo, socialAccountRepo,
		activityService, queue.NewScheduler(client))
	publishService := service.NewPublishService(postRepo, postPlatformRepo, socialAccountRepo, analyticsRepo,
		accountService, publisher.Build(publisher.Options{
			Live:                  cfg.PublishMode == config.PublishModeLive,
			InstagramGraphVersion: cfg.InstagramGraphVersion,
			GoogleClientID:        cfg.GoogleClientID,
			GoogleClientSecret:    cfg.GoogleClientSecret,
			TelegramBotToken:      cfg.TelegramBotToken,
		}), activityService, service.PublishOptions{
			Concurrency:     cfg.PublishConcurrency,
			PlatformTimeout: cfg.PublishPlatformTimeout,
		})
	analyticsService := service.NewAnalyticsService(analyticsRepo, socialAccountRepo, postRepo, activityService)
	blogService := service.NewBlogService(blogRepo, activityService)
	eventService := service.NewEventService(eventRepo, activityService)
	teamService := service.NewTeamService(teamRepo, activityService)
	mediaService := service.NewMediaService(mediaAssetRepo, r2Service, activityService)

	gate := middleware.NewGate(tokenService, userRepo, permissionService, cfg.CookieName)

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code == fiber.StatusInternalServerError {
				slog.Error("unhandled error", "path", c.Path(), "error", err)
				return c.Status(code).JSON(fiber.Map{"error": "internal server error"})
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	api.Register(app, gate, middleware.NewLoginLimiter(cfg.LoginRatePerMinute), api.Handlers{
		Auth:         handlers.NewAuthHandler(cfg, authService),
		Users:        handlers.NewUserHandler(userService),
		Permissions:  handlers.NewPermissionHandler(permissionService),
		Activity:     handlers.NewActivityHandler(activityService),
		Accounts:     handlers.NewSocialAccountHandler(accountService),
		Posts:        handlers.NewPostHandler(postService, publishService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Followers:    handlers.NewFollowerHandler(service.NewFollowerService(followerRepo, familyRepo, activityService)),
		Families:     handlers.NewFamilyHandler(service.NewFamilyService(familyRepo, activityService)),
		PrayerPoints: handlers.NewPrayerPointHandler(service.NewPrayerPointService(prayerPointRepo, followerRepo, activityService)),
		Notes:        handlers.NewNoteHandler(service.NewNoteService(noteRepo, activityService)),
		Blogs:        handlers.NewBlogHandler(blogService),
		Events:       handlers.NewEventHandler(eventService),
		Team:         handlers.NewTeamHandler(teamService),
		Prophecy:     handlers.NewProphecyHandler(service.NewProphecyService(prophecyRepo, activityService)),
		Media:        handlers.NewMediaHandler(mediaService, models.MediaKindMedia),
		Gallery:      handlers.NewMediaHandler(mediaService, models.MediaKindGallery),
		Settings:     handlers.NewSettingsHandler(service.NewSettingsService(settingsRepo, activityService)),
		Public:       handlers.NewPublicHandler(blogService, eventService, teamService),
	})

	// cron jobs
	staleJob := job.NewStalePublishJob(postRepo, postPlatformRepo, cfg.StalePublishAfter)
	c := cron.New()
	if _, err := c.AddFunc("@every 5m", staleJob.Run); err != nil {
		slog.Error("failed to schedule stale publish job", "error", err)
		os.Exit(1)
	}
	c.Start()

	// queue
	worker := queue.NewWorker(postRepo, publishService)
	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
		Logger:      asynqLogger{},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypePublishPost, worker.HandlePublishPostTask)

	go func() {
		slog.Info("starting the asynq server")
		if err := server.Run(mux); err != nil {
			slog.Error("asynq server stopped", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()
	slog.Info("server is running", "port", cfg.Port)

	gracefulShutdown(app, server, c, stop)
}

// newPermissionCache returns the configured cache and its cleanup func.
func newPermissionCache(ctx context.Context, cfg *config.Config) (cache.PermissionCache, func()) {
	if cfg.PermissionCacheBackend == config.CacheBackendRedis {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		return cache.NewRedisPermissionCache(rdb, cfg.PermissionCacheTTL), func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis", "error", err)
			}
		}
	}

	mem := cache.NewMemoryPermissionCache(cfg.PermissionCacheTTL)
	mem.StartJanitor(ctx, cfg.PermissionCacheTTL)
	return mem, func() {}
}

func closeDB(db *sqlx.DB) {
	slog.Info("closing database connection")
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

func gracefulShutdown(app *fiber.App, server *asynq.Server, c *cron.Cron, stop context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	server.Shutdown()
	<-c.Stop().Done()
	stop()

	slog.Info("server shutdown complete")
}

// asynqLogger routes asynq's logs through slog.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...any) { slog.Debug(fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...any)  { slog.Info(fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...any)  { slog.Warn(fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...any) { slog.Error(fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...any) {
	slog.Error(fmt.Sprint(args...))
	os.Exit(1)
}
