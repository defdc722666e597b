package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sifan077/linkpulse/config"
	"github.com/sifan077/linkpulse/internal/app/service"
	inthttp "github.com/sifan077/linkpulse/internal/http/handler"
	"github.com/sifan077/linkpulse/internal/http/middleware"
	"go.uber.org/zap"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// Dependencies bundles everything the HTTP server hands to its handlers.
// Redis is optional; without it link creation is not rate limited.
type Dependencies struct {
	Logger    *zap.Logger
	DB        inthttp.Pinger
	Redis     *redis.Client
	Links     service.LinkService
	Redirects service.RedirectService
	BaseURL   string
	RateLimit config.RateLimitConfig
	StartedAt time.Time

	// CORSOrigins restricts which browser origins may call the API; empty allows any.
	CORSOrigins []string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates the HTTP server with middleware and every route registered.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "linkpulse",
		DisableStartupMessage: true,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		IdleTimeout:           idleTimeout,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// App exposes the underlying Fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(
		middleware.Recovery(s.deps.Logger),
		middleware.RequestID(),
		middleware.Logger(s.deps.Logger),
		middleware.Metrics(),
		middleware.CORS(s.deps.CORSOrigins...),
	)
}

func (s *Server) registerRoutes() {
	var createLimiter fiber.Handler
	if s.deps.Redis != nil {
		createLimiter = middleware.RateLimit(s.deps.Redis, middleware.RateLimitConfig{
			MaxRequests: s.deps.RateLimit.MaxRequests,
			Window:      s.deps.RateLimit.Window,
		}, s.deps.Logger)
	}

	inthttp.NewHealthHandler(inthttp.HealthDeps{
		Logger:    s.deps.Logger,
		DB:        s.deps.DB,
		StartedAt: s.deps.StartedAt,
	}).Register(s.app)

	inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:        s.deps.Logger,
		LinkService:   s.deps.Links,
		CreateLimiter: createLimiter,
	}).Register(s.app)

	inthttp.NewPageHandler(inthttp.PageDeps{
		Logger:  s.deps.Logger,
		BaseURL: s.deps.BaseURL,
	}).Register(s.app)

	// The code route matches any single segment, so it goes last.
	inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:    s.deps.Logger,
		Redirects: s.deps.Redirects,
	}).Register(s.app)
}

// errorHandler renders errors that escape handlers (unknown routes, bad methods) as JSON.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": msg,
		})
	}
}
