package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/service"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

// AuthHandler exposes login, refresh and registration endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := requireFields(map[string]string{
		"username":        req.Username,
		"password":        req.Password,
		"restaurant_slug": req.RestaurantSlug,
	}); details != nil {
		return apperrors.NewValidationError("missing required fields", details)
	}

	result, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password, req.RestaurantSlug)
	if err != nil {
		return apperrors.NewUnauthorized("invalid authentication credentials")
	}
	return c.JSON(result)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("missing required fields", map[string]any{"refresh_token": "required"})
	}

	result, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return apperrors.NewUnauthorized("invalid authentication credentials")
	}
	return c.JSON(result)
}

// Register handles POST /auth/register (admin only). The new account lands
// in the caller's own tenant; a foreign slug requires the superadmin role.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	caller, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := requireFields(map[string]string{
		"username": req.Username,
		"password": req.Password,
	}); details != nil {
		return apperrors.NewValidationError("missing required fields", details)
	}

	slug := caller.RestaurantSlug
	if req.RestaurantSlug != "" && req.RestaurantSlug != caller.RestaurantSlug {
		// only superadmins may create accounts outside their own tenant
		if caller.Role != domain.RoleSuperadmin {
			return apperrors.NewForbidden("cannot register users outside your restaurant")
		}
		slug = req.RestaurantSlug
	}

	id, err := h.auth.CreateUser(c.UserContext(), req.Username, req.Password, slug, domain.Role(req.Role))
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			return apperrors.NewConflict("user already exists", nil)
		}
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{ID: id})
}

// UpdateUser handles PATCH /api/admin/users/:username. Admins can deactivate
// accounts or change roles within their own tenant; both take effect on the
// target's next request regardless of outstanding tokens.
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	caller, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	username := c.Params("username")

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.IsActive == nil && req.Role == "" {
		return apperrors.NewValidationError("nothing to update", nil)
	}

	ctx := c.UserContext()
	if req.Role != "" {
		role := domain.Role(req.Role)
		if !role.Valid() {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
		}
		if err := h.auth.SetUserRole(ctx, caller.RestaurantSlug, username, role); err != nil {
			return apperrors.MapError(err)
		}
	}
	if req.IsActive != nil {
		if err := h.auth.SetUserActive(ctx, caller.RestaurantSlug, username, *req.IsActive); err != nil {
			return apperrors.MapError(err)
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/me, returning the caller's user context.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	return c.JSON(user)
}

func requireFields(fields map[string]string) map[string]any {
	var details map[string]any
	for name, value := range fields {
		if value == "" {
			if details == nil {
				details = map[string]any{}
			}
			details[name] = "required"
		}
	}
	return details
}
