package middleware

import (
	"os"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var prom *fiberprometheus.FiberPrometheus

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. Skipped under APP_ENV=test so parallel test packages do not fight
// over the default registry.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	if os.Getenv("APP_ENV") == "test" {
		return nil
	}
	if prom == nil {
		prom = fiberprometheus.New(serviceName)
	}
	return prom
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	if p == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return p.Middleware
}
