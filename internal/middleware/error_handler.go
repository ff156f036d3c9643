package middleware

import (
	"aurum-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler catches errors that escaped the handlers and returns
// the standard error envelope. Business errors never reach here (the
// trade handlers map them to codes themselves), so anything landing
// in the 5xx branch is logged as unexpected.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().
			Str("trace_id", GetTraceID(c)).
			Str("path", c.Path()).
			Err(err).
			Msg("Unhandled error")
	}

	return response.Error(c, message, code, map[string]interface{}{
		"trace_id": GetTraceID(c),
	})
}
