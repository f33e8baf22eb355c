// Package server contains the HTTP handlers and routing for the marketplace API.
package server

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "rewear/docs" // swagger docs
	"rewear/internal/bootstrap"
	"rewear/internal/cache"
	"rewear/internal/config"
	"rewear/internal/database"
	"rewear/internal/featureflags"
	"rewear/internal/middleware"
	"rewear/internal/models"
	"rewear/internal/notifications"
	"rewear/internal/repository"
	"rewear/internal/service"

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
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	rateLimiter    *middleware.RateLimiter
	tokens         *service.TokenService
	notifier       *notifications.Notifier
	featureFlags   *featureflags.Manager

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository

	authService         *service.AuthService
	userService         *service.UserService
	postService         *service.PostService
	favoriteService     *service.FavoriteService
	messageService      *service.MessageService
	notificationService *service.NotificationService
	ratingService       *service.RatingService
	imageProxy          *service.ImageProxy
}

// NewServer connects the database and Redis from cfg and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil Redis client disables notification publishing and, outside
// development, fails open on the Redis-backed rate limits.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server requires config and database")
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)

	tokens := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.JWTTTL,
	})

	var notifier *notifications.Notifier
	var publisher service.NotificationPublisher
	if redisClient != nil {
		notifier = notifications.NewNotifier(redisClient)
		publisher = notifier
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("rewear-api"),
		rateLimiter:    middleware.NewRateLimiter(redisClient, cfg.Env),
		tokens:         tokens,
		notifier:       notifier,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
	}

	s.authService = service.NewAuthService(userRepo, tokens)
	s.userService = service.NewUserService(userRepo)
	s.postService = service.NewPostService(postRepo, categoryRepo, publisher)
	s.favoriteService = service.NewFavoriteService(repository.NewFavoriteRepository(db))
	s.messageService = service.NewMessageService(repository.NewMessageRepository(db), userRepo, postRepo, publisher)
	s.notificationService = service.NewNotificationService(repository.NewNotificationRepository(db))
	s.ratingService = service.NewRatingService(repository.NewRatingRepository(db))
	s.imageProxy = service.NewImageProxy(service.ImageProxyConfig{
		Timeout:  cfg.ImageProxyTimeout,
		MaxBytes: cfg.ImageProxyMaxBytes,
	})

	return s, nil
}

// App builds the Fiber application with middleware and routes installed.
func (s *Server) App() *fiber.App {
	bodyLimit := s.config.BodyLimitMB * 1024 * 1024
	if bodyLimit <= 0 {
		bodyLimit = 2 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		AppName:      "ReWear API",
		BodyLimit:    bodyLimit,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err.Error())
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// The bundled frontend uses inline scripts, so CSP stays off.
	app.Use(helmet.New(helmet.Config{
		ContentSecurityPolicy:     "",
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))

	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses
	// still carry the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))

	perMinute := s.config.RateLimitPerMinute
	if perMinute <= 0 {
		perMinute = 300
	}
	app.Use(limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/health")
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
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
	api.Get("/health", s.HealthCheck)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ReWear API Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/signup", s.rateLimiter.Limit("signup", 5, 10*time.Minute, middleware.FailOpen), s.Signup)
	auth.Post("/login", s.rateLimiter.Limit("login", 10, 5*time.Minute, middleware.FailOpen), s.Login)
	if s.featureFlags.EnabledGlobally(config.FlagDemoPasswordReset) {
		auth.Post("/reset-password",
			s.rateLimiter.Limit("reset_password", 5, 10*time.Minute, middleware.FailOpen), s.ResetPassword)
	}

	api.Get("/categories", s.GetCategories)
	api.Get("/posts", s.GetPosts)
	api.Get("/posts/:id", s.GetPost)
	api.Get("/users/:id", s.GetUserProfile)
	api.Get("/image-proxy", s.imageProxyLimit(), s.ProxyImage)

	// Auth is attached per route so unmatched /api paths still reach apiNotFound.
	authed := middleware.AuthRequired(s.tokens)

	api.Get("/me", authed, s.GetMe)
	api.Put("/me", authed, s.UpdateMyName)
	api.Put("/me/email", authed, s.UpdateMyEmail)
	api.Put("/me/contact", authed, s.UpdateMyContact)
	api.Put("/me/password", authed, s.ChangeMyPassword)

	api.Post("/posts", authed,
		s.rateLimiter.Limit("create_post", 20, time.Minute, middleware.FailOpen), s.CreatePost)

	api.Get("/favorites", authed, s.GetFavorites)
	api.Post("/favorites/:postId", authed, s.ToggleFavorite)

	api.Get("/messages/threads", authed, s.GetThreads)
	api.Get("/messages", authed, s.GetConversation)
	api.Post("/messages", authed,
		s.rateLimiter.Limit("send_message", 30, time.Minute, middleware.FailOpen), s.SendMessage)

	api.Get("/notifications", authed, s.GetNotifications)
	api.Post("/notifications/:id/read", authed, s.MarkNotificationRead)

	api.Post("/ratings", authed, s.CreateRating)
	api.Post("/users/:id/rate", authed, s.RateUser)

	api.Get("/admin/feature-flags", authed, s.AdminRequired(), s.GetFeatureFlags)

	api.Use(s.apiNotFound)

	staticDir := s.config.StaticDir
	if staticDir != "" {
		app.Static("/", staticDir)
	}
	app.Use(s.frontendFallback)
}

// HealthCheck handles GET /api/health
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health. Redis only backs rate
// limits and notification fan-out, so its absence does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// The role is read from the database rather than trusted from the token.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := currentUserID(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil && !models.IsCode(err, models.CodeNotFound) {
			return respondServiceError(c, err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

func (s *Server) apiNotFound(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusNotFound,
		models.NewNotFoundError("Route", nil))
}

// frontendFallback serves the single-page entry document for unmatched
// GET requests so client-side routes survive a reload.
func (s *Server) frontendFallback(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodGet || s.config.StaticDir == "" {
		return fiber.ErrNotFound
	}
	index := filepath.Join(s.config.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return fiber.ErrNotFound
	}
	return c.SendFile(index)
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	s.app = s.App()
	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Shared connections from bootstrap also own the read replica.
	if s.db == database.DB {
		if err := database.Close(); err != nil {
			log.Printf("error closing database: %v", err)
		}
	} else if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		var rerr error
		if s.redis == cache.GetClient() {
			rerr = cache.Close()
		} else {
			rerr = s.redis.Close()
		}
		if rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
