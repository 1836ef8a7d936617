package controller

import (
	"venuechat-be/internal/pkg/serverutils"
	"venuechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	GetVenueMessages(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/chat", authMiddleware)
	h.Get("/venue/:venueId/messages", c.GetVenueMessages)
}

func (c *chatController) GetVenueMessages(ctx *fiber.Ctx) error {
	venueId, err := uuid.Parse(ctx.Params("venueId"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, service.ErrInvalidVenue.Error()))
	}

	limit := ctx.QueryInt("limit", 50)

	res, err := c.service.GetVenueMessages(ctx.Context(), venueId, limit)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "storage unavailable"))
	}
	return ctx.JSON(res)
}
