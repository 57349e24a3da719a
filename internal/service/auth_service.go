package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/auth"
	"github.com/spec-kit/restaurant-service/internal/config"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/repository"
)

// ErrUserExists signals a registration conflict on (username, restaurant).
var ErrUserExists = errors.New("user already exists")

// ErrNotAuthenticated covers every authentication failure: unknown user,
// wrong password, inactive account, invalid/expired/wrong-type token. The
// causes are deliberately indistinguishable to callers.
var ErrNotAuthenticated = errors.New("not authenticated")

const uniqueViolationCode = "23505"

// LoginResult is the payload returned on successful login or refresh.
type LoginResult struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	TokenType    string             `json:"token_type"`
	ExpiresIn    int                `json:"expires_in"`
	User         domain.UserContext `json:"user"`
}

// AuthService coordinates credential lookup, password verification and token
// issuance. It is the translation boundary: storage and token-library errors
// never pass through it raw.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) (*AuthService, error) {
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTLMinutes)
	if err != nil {
		return nil, err
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}, nil
}

// CreateUser registers a new credential record and returns its id. An
// existing (username, restaurant) pair yields ErrUserExists; the unique index
// on the users table catches the race the lookup cannot.
func (s *AuthService) CreateUser(ctx context.Context, username, password, restaurantSlug string, role domain.Role) (string, error) {
	if role == "" {
		role = domain.RoleAdmin
	}
	if !role.Valid() {
		return "", errors.New("unknown role: " + string(role))
	}

	if _, err := s.users.GetByUsername(ctx, restaurantSlug, username); err == nil {
		return "", ErrUserExists
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		Username:       username,
		PasswordHash:   hash,
		Role:           role,
		RestaurantSlug: restaurantSlug,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return "", ErrUserExists
		}
		return "", err
	}
	return user.ID, nil
}

// Authenticate verifies a username/password pair within a tenant and issues
// an access/refresh token pair. Unknown user, inactive account and password
// mismatch all return ErrNotAuthenticated.
func (s *AuthService) Authenticate(ctx context.Context, username, password, restaurantSlug string) (*LoginResult, error) {
	user, err := s.users.GetActiveByUsername(ctx, restaurantSlug, username)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return nil, ErrNotAuthenticated
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrNotAuthenticated
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a brand-new token pair. The
// old refresh token is superseded, not revoked. A token without the refresh
// discriminator is rejected, as is one for a since-deactivated account.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.ParseToken(refreshToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.GetActiveByUsername(ctx, claims.RestaurantSlug, claims.Subject)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return nil, ErrNotAuthenticated
	}
	return s.issueTokens(user)
}

// VerifyToken resolves an access token to the account's current state. The
// record is re-fetched on every call, so deactivation takes effect on the
// very next request even for unexpired tokens. Refresh tokens are rejected.
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (*domain.UserContext, error) {
	claims, err := s.tokens.ParseToken(accessToken)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	if claims.TokenType != "" {
		return nil, ErrNotAuthenticated
	}

	user, err := s.users.GetActiveByUsername(ctx, claims.RestaurantSlug, claims.Subject)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("credential lookup failed", zap.Error(err))
		}
		return nil, ErrNotAuthenticated
	}

	return &domain.UserContext{
		ID:             user.ID,
		Username:       user.Username,
		Role:           user.Role,
		RestaurantSlug: user.RestaurantSlug,
	}, nil
}

// SetUserActive toggles a credential record's active flag. Deactivation cuts
// off the account on its next request; the record itself is never deleted.
func (s *AuthService) SetUserActive(ctx context.Context, restaurantSlug, username string, active bool) error {
	return s.users.SetActive(ctx, restaurantSlug, username, active)
}

// SetUserRole changes a credential record's role. Outstanding tokens keep
// the old role claim but VerifyToken reports the stored role, so the change
// applies immediately.
func (s *AuthService) SetUserRole(ctx context.Context, restaurantSlug, username string, role domain.Role) error {
	if !role.Valid() {
		return errors.New("unknown role: " + string(role))
	}
	return s.users.UpdateRole(ctx, restaurantSlug, username, role)
}

func (s *AuthService) issueTokens(user *domain.User) (*LoginResult, error) {
	accessToken, _, err := s.tokens.GenerateAccessToken(user, 0)
	if err != nil {
		s.logger.Error("access token signing failed", zap.Error(err))
		return nil, ErrNotAuthenticated
	}
	refreshToken, _, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		s.logger.Error("refresh token signing failed", zap.Error(err))
		return nil, ErrNotAuthenticated
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		User: domain.UserContext{
			ID:             user.ID,
			Username:       user.Username,
			Role:           user.Role,
			RestaurantSlug: user.RestaurantSlug,
		},
	}, nil
}
