package handler

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthDeps groups dependencies required by the health handler.
type HealthDeps struct {
	Logger    *zap.Logger
	DB        Pinger
	StartedAt time.Time
}

// HealthHandler reports liveness together with a database round-trip.
type HealthHandler struct {
	logger    *zap.Logger
	db        Pinger
	startedAt time.Time
}

func NewHealthHandler(deps HealthDeps) *HealthHandler {
	startedAt := deps.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return &HealthHandler{
		logger:    nopIfNil(deps.Logger),
		db:        deps.DB,
		startedAt: startedAt,
	}
}

func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/healthz", h.Healthz)
}

// SystemInfo is the runtime metadata reported by /healthz.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
	Hostname     string `json:"hostname"`
	PID          int    `json:"pid"`
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(userContext(c), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":    false,
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"ok":             true,
		"db":             "up",
		"uptime_seconds": int64(time.Since(h.startedAt).Seconds()),
		"system":         systemInfo(),
	})
}

func systemInfo() SystemInfo {
	hostname, _ := os.Hostname()
	return SystemInfo{
		GoVersion:    runtime.Version(),
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
		Hostname:     hostname,
		PID:          os.Getpid(),
	}
}
