package health

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Rdb *redis.Client
	DB  DBPinger
}

// JSON GET /health/json
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(c.Context(), h.Rdb, h.DB)
	code := fiber.StatusOK
	if result.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(result)
}
