package middleware

import (
	"strconv"
	"time"

	"github.com/PavaniTiago/compliance-intelligence-api/internal/logging"
	"github.com/PavaniTiago/compliance-intelligence-api/internal/observability"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger registra a duração de cada requisição no log e no Prometheus
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Deixa o error handler definir o status antes de medir
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		observability.HTTPRequestDuration.
			WithLabelValues(c.Method(), route, strconv.Itoa(status)).
			Observe(duration.Seconds())

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= 500:
			logging.L().Error("request", fields...)
		case route == "/health" || route == "/metrics":
			logging.L().Debug("request", fields...)
		default:
			logging.L().Info("request", fields...)
		}

		return nil
	}
}
