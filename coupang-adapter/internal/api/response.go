package api

import "github.com/gofiber/fiber/v2"

// CategoryStatusHeader reports the category outcome on product listings.
const CategoryStatusHeader = "X-Category-Status"

// ErrorResponse is the JSON body of every 4xx and 5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}
