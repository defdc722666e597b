package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	metrics "github.com/sifan077/linkpulse/internal/infra/prometheus"
)

// Metrics records request latency labelled by the matched route pattern, not the raw path,
// so short codes do not explode label cardinality.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).
			Observe(time.Since(start).Seconds())

		return err
	}
}
