// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"socialhub/internal/bootstrap"
	"socialhub/internal/cache"
	"socialhub/internal/config"
	"socialhub/internal/featureflags"
	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"
	"socialhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultAllowedOrigins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	runtime        *bootstrap.Runtime
	db             *gorm.DB
	badger         *badger.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	featureFlags   *featureflags.Manager
	authService    *service.AuthService
	postService    *service.PostService
	graphService   *service.GraphService
}

// NewServer opens the configured backends and creates a server over them.
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, fmt.Errorf("runtime initialization failed: %w", err)
	}

	s := NewServerWithDeps(cfg, rt.Users, rt.Posts, rt.Redis)
	s.runtime = rt
	s.db = rt.DB
	s.badger = rt.Badger
	s.promMiddleware = middleware.InitMetrics(observability.ServiceName)
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized repositories.
// redisClient may be nil, which disables token revocation.
func NewServerWithDeps(cfg *config.Config, users repository.UserRepository, posts repository.PostRepository, redisClient *redis.Client) *Server {
	graph := service.NewGraphService(users)
	feed := service.NewFeedService(users, graph)
	return &Server{
		config:       cfg,
		redis:        redisClient,
		featureFlags: featureflags.NewManager(cfg.FeatureFlags),
		authService:  service.NewAuthService(users, cache.NewRevocationList(redisClient), cfg.JWTSecret, cfg.TokenTTL),
		postService:  service.NewPostService(posts, users, feed),
		graphService: graph,
	}
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "SocialHub API",
		BodyLimit: 10 * 1024 * 1024, // images travel inline as base64
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) && fe.Code == fiber.StatusNotFound {
				return models.RespondWithError(c, fiber.StatusNotFound, &models.AppError{Code: models.CodeNotFound, Message: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = defaultAllowedOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public reads; a valid token personalizes isFollowingAuthor
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	// Protected post routes
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Post("/:id/like", s.AuthRequired(), s.LikePost)
	posts.Put("/:id", s.AuthRequired(), s.UpdatePost)

	api.Post("/comments", s.AuthRequired(), s.CreateComment)

	users := api.Group("/users")
	users.Get("/", s.GetUsers)
	users.Post("/:id/follow", s.AuthRequired(), s.FollowUser)
	users.Get("/:id", s.GetUser)
}

// LivenessCheck handles liveness check requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the health of the store and Redis. Redis is optional:
// without it the check reports "disabled" and stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	switch {
	case s.db != nil:
		sqlDB, err := s.db.DB()
		if err != nil {
			storeStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			storeStatus = "unhealthy"
		}
	case s.badger != nil:
		if s.badger.IsClosed() {
			storeStatus = "unhealthy"
		}
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's id in locals ("userID") and in the user context.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := s.authService.Verify(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		c.Locals(middleware.LocalUserID, userID)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// optionalUserID returns the caller's id when a valid token is present and 0
// otherwise. It never fails the request.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return 0
	}
	userID, err := s.authService.Verify(c.UserContext(), header)
	if err != nil {
		return 0
	}
	c.Locals(middleware.LocalViewerID, userID)
	return userID
}

// Start builds the app and listens on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port), slog.String("store", s.config.StoreBackend))
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if s.runtime != nil {
		if err := s.runtime.Close(); err != nil {
			middleware.Logger.Error("error closing backends", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
