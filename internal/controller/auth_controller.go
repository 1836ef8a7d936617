package controller

import (
	"errors"

	"venuechat-be/internal/dto"
	"venuechat-be/internal/entity"
	"venuechat-be/internal/pkg/serverutils"
	"venuechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	CreateEphemeralSession(ctx *fiber.Ctx) error
	ValidateSession(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
}

func NewAuthController(service service.IAuthService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/auth")
	h.Post("/ephemeral", c.CreateEphemeralSession)
	h.Get("/validate", authMiddleware, c.ValidateSession)
	h.Post("/logout", authMiddleware, c.Logout)
}

func (c *authController) CreateEphemeralSession(ctx *fiber.Ctx) error {
	res, err := c.service.IssueEphemeralSession(ctx.Context(), ctx.Get("User-Agent"), ctx.IP())
	if err != nil {
		if errors.Is(err, service.ErrStorageUnavailable) {
			return ctx.Status(fiber.StatusServiceUnavailable).
				JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "storage unavailable"))
		}
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *authController) ValidateSession(ctx *fiber.Ctx) error {
	identity, ok := ctx.Locals(serverutils.IdentityLocalsKey).(*entity.Identity)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "not authenticated"))
	}

	return ctx.JSON(dto.ValidateSessionResponse{
		Valid: true,
		User: dto.IdentityDTO{
			SessionId:   identity.SessionId,
			DisplayName: identity.DisplayName,
			Kind:        identity.Kind,
		},
	})
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	identity, ok := ctx.Locals(serverutils.IdentityLocalsKey).(*entity.Identity)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "not authenticated"))
	}

	if err := c.service.EndSession(ctx.Context(), identity.SessionId); err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "storage unavailable"))
	}
	return ctx.JSON(dto.LogoutResponse{Success: true})
}
