package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/linkpulse/internal/errx"
	"go.uber.org/zap"
)

// StatusFor maps an error kind to the HTTP status the API answers with.
func StatusFor(kind errx.Kind) int {
	switch kind {
	case errx.Invalid:
		return fiber.StatusBadRequest
	case errx.NotFound:
		return fiber.StatusNotFound
	case errx.Conflict:
		return fiber.StatusConflict
	case errx.Unavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError answers with {"error": message}; server-side failures are logged first.
func writeError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	status := StatusFor(errx.KindOf(err))
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": errx.Message(err),
	})
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
