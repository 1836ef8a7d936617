package serverutils

import (
	"errors"

	"venuechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const IdentityLocalsKey = "identity"

// SessionMiddleware authenticates a request against its bearer token and the
// live session record, then stores the resulting identity in Locals. Token
// claims alone are not enough: a logged-out or swept session is rejected even
// while its token is structurally valid.
func SessionMiddleware(authService service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).
				JSON(ErrorResponse(fiber.StatusUnauthorized, "missing token"))
		}

		identity, err := authService.ValidateToken(ctx.Context(), authHeader[7:])
		if err != nil {
			status := fiber.StatusUnauthorized
			if errors.Is(err, service.ErrStorageUnavailable) {
				status = fiber.StatusServiceUnavailable
			}
			return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
		}

		ctx.Locals(IdentityLocalsKey, identity)
		return ctx.Next()
	}
}
