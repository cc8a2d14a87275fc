package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-api/internal/metrics"
)

// Metrics records the count and latency of every request, labelled with the
// matched route pattern rather than the raw path.
func Metrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		metrics.RecordAPIRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
