package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkpulse/internal/app/service"
	"github.com/sifan077/linkpulse/internal/errx"
	metrics "github.com/sifan077/linkpulse/internal/infra/prometheus"
	"go.uber.org/zap"
)

// NotFoundPath is where unknown short codes are sent.
const NotFoundPath = "/404"

// RedirectDeps groups dependencies required by redirect handlers.
type RedirectDeps struct {
	Logger    *zap.Logger
	Redirects service.RedirectService
}

// RedirectHandler turns a short code into a 302 towards its original URL.
type RedirectHandler struct {
	logger    *zap.Logger
	redirects service.RedirectService
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	return &RedirectHandler{
		logger:    nopIfNil(deps.Logger),
		redirects: deps.Redirects,
	}
}

// Register wires the catch-all code route; it must come after every fixed path.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/:code", h.Resolve)
}

// Resolve handles GET /:code.
func (h *RedirectHandler) Resolve(c *fiber.Ctx) error {
	code := c.Params("code")

	link, err := h.redirects.Follow(userContext(c), code, service.ClickInfo{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IP:        clientIP(c),
	})
	if err != nil {
		if errx.Is(err, errx.NotFound) {
			metrics.Redirects.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return c.Redirect(NotFoundPath, fiber.StatusFound)
		}
		metrics.Redirects.WithLabelValues(metrics.OutcomeError).Inc()
		return writeError(c, h.logger, err)
	}

	metrics.Redirects.WithLabelValues(metrics.OutcomeFound).Inc()
	h.logger.Debug("redirecting short link", zap.String("code", code), zap.String("target", link.OriginalURL))
	return c.Redirect(link.OriginalURL, fiber.StatusFound)
}

// clientIP prefers the first X-Forwarded-For hop and falls back to the peer address.
func clientIP(c *fiber.Ctx) string {
	if ips := c.IPs(); len(ips) > 0 && ips[0] != "" {
		return ips[0]
	}
	return c.IP()
}
