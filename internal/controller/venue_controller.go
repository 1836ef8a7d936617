package controller

import (
	"strconv"

	"venuechat-be/internal/pkg/serverutils"
	"venuechat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVenueController interface {
	RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler)
	GetNearbyVenues(ctx *fiber.Ctx) error
	GetVenueById(ctx *fiber.Ctx) error
}

type venueController struct {
	service service.IVenueService
}

func NewVenueController(service service.IVenueService) IVenueController {
	return &venueController{service: service}
}

func (c *venueController) RegisterRoutes(r fiber.Router, authMiddleware fiber.Handler) {
	h := r.Group("/venues", authMiddleware)
	h.Get("/nearby", c.GetNearbyVenues)
	h.Get("/:id", c.GetVenueById)
}

func (c *venueController) GetNearbyVenues(ctx *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(ctx.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(ctx.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "lat and lng query parameters are required"))
	}

	radiusKm := 5.0
	if raw := ctx.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			radiusKm = parsed
		}
	}

	res, err := c.service.GetNearbyVenues(ctx.Context(), lat, lng, radiusKm)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "storage unavailable"))
	}
	return ctx.JSON(res)
}

func (c *venueController) GetVenueById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, service.ErrInvalidVenue.Error()))
	}

	res, err := c.service.GetVenueById(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponse(fiber.StatusServiceUnavailable, "storage unavailable"))
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).
			JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "venue not found"))
	}
	return ctx.JSON(res)
}
