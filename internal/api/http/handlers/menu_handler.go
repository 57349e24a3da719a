package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/repository"
	"github.com/spec-kit/restaurant-service/internal/service"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

// MenuHandler exposes category and product endpoints. Public reads take the
// restaurant slug from the path; admin writes take it from the token.
type MenuHandler struct {
	menu *service.MenuService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(menu *service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// ListCategories handles GET /api/restaurants/:slug/categories.
func (h *MenuHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.menu.ListCategories(c.UserContext(), c.Params("slug"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryListResponse(categories)})
}

// ListProducts handles GET /api/restaurants/:slug/products.
func (h *MenuHandler) ListProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{AvailableOnly: true}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	products, err := h.menu.ListProducts(c.UserContext(), c.Params("slug"), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductListResponse(products)})
}

// GetProduct handles GET /api/restaurants/:slug/products/:id.
func (h *MenuHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.menu.GetProduct(c.UserContext(), c.Params("slug"), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// CreateCategory handles POST /api/admin/categories.
func (h *MenuHandler) CreateCategory(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("missing required fields", map[string]any{"name": "required"})
	}

	category, err := h.menu.CreateCategory(c.UserContext(), user.RestaurantSlug, service.CategoryInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// UpdateCategory handles PUT /api/admin/categories/:id.
func (h *MenuHandler) UpdateCategory(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.menu.UpdateCategory(c.UserContext(), user.RestaurantSlug, c.Params("id"), service.CategoryInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponse(category)})
}

// DeleteCategory handles DELETE /api/admin/categories/:id.
func (h *MenuHandler) DeleteCategory(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.menu.DeleteCategory(c.UserContext(), user.RestaurantSlug, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// AdminListProducts handles GET /api/admin/products, including unavailable
// items.
func (h *MenuHandler) AdminListProducts(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	filter := repository.ProductFilter{}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}

	products, err := h.menu.ListProducts(c.UserContext(), user.RestaurantSlug, filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductListResponse(products)})
}

// CreateProduct handles POST /api/admin/products.
func (h *MenuHandler) CreateProduct(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product, err := h.menu.CreateProduct(c.UserContext(), user.RestaurantSlug, productInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// UpdateProduct handles PUT /api/admin/products/:id.
func (h *MenuHandler) UpdateProduct(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product, err := h.menu.UpdateProduct(c.UserContext(), user.RestaurantSlug, c.Params("id"), productInput(req))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(product)})
}

// DeleteProduct handles DELETE /api/admin/products/:id.
func (h *MenuHandler) DeleteProduct(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.menu.DeleteProduct(c.UserContext(), user.RestaurantSlug, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseProductRequest(c *fiber.Ctx) (dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	details := map[string]any{}
	if req.Name == "" {
		details["name"] = "required"
	}
	if req.Price < 0 {
		details["price"] = "must not be negative"
	}
	if len(details) > 0 {
		return req, apperrors.NewValidationError("invalid product", details)
	}
	return req, nil
}

func productInput(req dto.ProductRequest) service.ProductInput {
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	return service.ProductInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Available:   available,
	}
}
