package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/service"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

// RestaurantsHandler exposes tenant endpoints.
type RestaurantsHandler struct {
	restaurants *service.RestaurantService
}

// NewRestaurantsHandler constructs handler.
func NewRestaurantsHandler(restaurants *service.RestaurantService) *RestaurantsHandler {
	return &RestaurantsHandler{restaurants: restaurants}
}

// Get handles GET /api/restaurants/:slug.
func (h *RestaurantsHandler) Get(c *fiber.Ctx) error {
	restaurant, err := h.restaurants.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}

// Create handles POST /api/admin/restaurants.
func (h *RestaurantsHandler) Create(c *fiber.Ctx) error {
	var req dto.RestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	if req.Slug == "" {
		details["slug"] = "required"
	}
	if req.Name == "" {
		details["name"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("missing required fields", details)
	}

	restaurant, err := h.restaurants.Create(c.UserContext(), req.Slug, service.RestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrRestaurantExists) {
			return apperrors.NewConflict("restaurant already exists", nil)
		}
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}

// Update handles PUT /api/admin/restaurant, updating the caller's own
// tenant.
func (h *RestaurantsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.RestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	restaurant, err := h.restaurants.Update(c.UserContext(), user.RestaurantSlug, service.RestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		IsActive:    active,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewRestaurantResponse(restaurant)})
}
