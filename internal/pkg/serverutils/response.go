package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

func ErrorResponse(code int, message string) fiber.Map {
	return fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	}
}

// ErrorHandlerMiddleware recovers panics so one broken request cannot take
// the process down.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
			}
		}()
		return ctx.Next()
	}
}
