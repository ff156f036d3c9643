package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RouteLogger logs one line per request with trace ID, tenant, status
// and duration. Registered before ValidateTenant, so the tenant field
// is present only when a tenant resolved.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		evt := log.Info().
			Str("trace_id", GetTraceID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start))
		if tenant := GetTenant(c); tenant != nil {
			evt = evt.Str("tenant_id", tenant.TenantID.String())
		}
		evt.Msg("Request handled")
		return err
	}
}
