// Package server contains the HTTP handlers of the ChronoGift API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "chronogift/docs" // swagger docs
	"chronogift/internal/cache"
	"chronogift/internal/config"
	"chronogift/internal/database"
	"chronogift/internal/identity"
	"chronogift/internal/middleware"
	"chronogift/internal/models"
	"chronogift/internal/passcode"
	"chronogift/internal/repository"
	"chronogift/internal/service"
	"chronogift/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	rateLimiter     *middleware.RateLimiter
	media           *storage.MediaStore
	identityService *service.IdentityService
	giftService     *service.GiftService
	auditService    *service.AuditService
}

// NewServer connects the database and Redis and builds a server backed by
// the Google identity provider.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	provider := identity.NewGoogleProvider(identity.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		CallbackURL:  cfg.GoogleCallbackURL,
		Timeout:      cfg.IdentityTimeout,
	})

	return NewServerWithDeps(cfg, db, redisClient, provider)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, provider identity.Provider) (*Server, error) {
	media, err := storage.NewMediaStore(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("media storage setup failed: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	giftRepo := repository.NewGiftRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo, cfg.StoreTimeout)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("chronogift-api"),
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.RateLimitEnabled),
		media:          media,
		identityService: service.NewIdentityService(
			provider, userRepo, cfg.IdentityTimeout, cfg.StoreTimeout),
		giftService: service.NewGiftService(
			giftRepo,
			auditService,
			passcode.NewHasher(passcode.DefaultParams),
			service.GiftServiceConfig{
				ShareBaseURL: cfg.ShareBaseURL,
				StrictReopen: cfg.StrictReopen(),
				StoreTimeout: cfg.StoreTimeout,
			}),
		auditService: auditService,
	}

	return server, nil
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ChronoGift API",
		BodyLimit:    256 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := models.CodeInternal
		switch {
		case fe.Code == fiber.StatusNotFound:
			code = models.CodeNotFound
		case fe.Code == fiber.StatusMethodNotAllowed:
			code = models.CodeNotFound
		case fe.Code >= 400 && fe.Code < 500:
			code = models.CodeValidation
		}
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message, Code: code})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Propagate request, user and trace ids into the request context
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses keep their headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Coarse in-process limit per IP; the Redis limiter guards individual routes.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return !s.config.RateLimitEnabled || c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithAppError(c, models.NewRateLimitedError())
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ChronoGift Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/identity", s.rateLimiter.Limit(20, 5*time.Minute, "identity"), s.Identify)
	auth.Post("/google", s.rateLimiter.Limit(20, 5*time.Minute, "identity"), s.GoogleSignIn)

	// Public gift routes; open authenticates inside the handler
	gift := api.Group("/gift")
	gift.Post("/open",
		s.rateLimiter.LimitWithPolicy(10, time.Minute, middleware.FailClosed, "open_gift"),
		s.OpenGift)
	gift.Post("/media", s.AuthRequired(),
		s.rateLimiter.Limit(30, time.Hour, "media_upload"), s.PresignMedia)
	gift.Post("/", s.AuthRequired(),
		s.rateLimiter.Limit(30, time.Hour, "create_gift"), s.CreateGift)
	gift.Get("/:id", s.GetGift)

	api.Get("/users/me", s.AuthRequired(), s.GetMe)
	api.Get("/gifts/by-user/:userId", s.AuthRequired(), s.GetGiftsByUser)
	api.Get("/gifts", s.AuthRequired(), s.GetGifts)
	api.Get("/transactions", s.AuthRequired(), s.GetTransactions)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now().UTC(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
	}

	// Redis only backs caching and rate limiting, so its absence degrades
	// rather than fails readiness.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	case redisStatus != "healthy":
		overall = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"media":    s.media.Enabled(),
		},
		"time": time.Now().UTC(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("close database: %w", cerr))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", rerr))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}
