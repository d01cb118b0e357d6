package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/metrics"
)

// RequestMetrics counts requests by method and status and observes their duration.
func RequestMetrics(m *metrics.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.CounterRequests.WithLabelValues(c.Method(), strconv.Itoa(status)).Inc()
		m.HistRequestDuration.Observe(time.Since(start).Seconds())
		return err
	}
}
