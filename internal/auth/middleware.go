package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/domain"
	apperrors "github.com/spec-kit/restaurant-service/pkg/util"
)

const userContextKey = "auth_user"

// TokenVerifier resolves an access token to the current account state.
// Implemented by the auth service; failures of any cause come back as a
// single error so the middleware reports them uniformly.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.UserContext, error)
}

// Middleware validates bearer tokens and loads the caller's user context.
type Middleware struct {
	verifier TokenVerifier
}

// NewMiddleware constructs middleware.
func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	user, err := m.verifier.VerifyToken(c.UserContext(), parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid authentication credentials")
	}

	c.Locals(userContextKey, user)
	return c.Next()
}

// RequireAdmin ensures the authenticated caller holds an elevated role.
// Yields 403, not 401: the identity is valid, the privilege is not.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if !user.Role.Elevated() {
			return apperrors.NewForbidden("operation not permitted for this user role")
		}
		return c.Next()
	}
}

// UserFromContext retrieves the authenticated user context.
func UserFromContext(c *fiber.Ctx) (*domain.UserContext, bool) {
	val := c.Locals(userContextKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.UserContext)
	return user, ok
}
