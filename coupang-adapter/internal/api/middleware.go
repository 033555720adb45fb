package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Recover turns a panic in a later handler into a generic 500 JSON reply.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("api.panic_recovered",
					zap.Any("panic", rec),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()))
				err = writeError(c, fiber.StatusInternalServerError, "Internal Server Error")
			}
		}()
		return c.Next()
	}
}
