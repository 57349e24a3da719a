package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// TokenTypeRefresh marks refresh tokens. Access tokens carry no type claim.
const TokenTypeRefresh = "refresh"

const refreshTokenTTL = 7 * 24 * time.Hour

// ErrTokenInvalid is returned for every decode failure. Bad signature,
// expiry, and malformed payloads are deliberately indistinguishable so the
// codec cannot be used as an oracle.
var ErrTokenInvalid = errors.New("invalid token")

// TokenManager issues and validates signed JWT tokens. It is stateless;
// secret and signing method are fixed at construction.
type TokenManager struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
}

// NewTokenManager builds a manager for the given secret and algorithm name.
// Only HMAC algorithms are accepted.
func NewTokenManager(secret, algorithm string, accessTTLMinutes int) (*TokenManager, error) {
	if accessTTLMinutes <= 0 {
		accessTTLMinutes = 30
	}
	method := jwt.GetSigningMethod(strings.ToUpper(algorithm))
	if method == nil {
		return nil, errors.New("unknown signing algorithm: " + algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unsupported signing algorithm: " + algorithm)
	}
	return &TokenManager{
		secret:    []byte(secret),
		method:    method,
		accessTTL: time.Duration(accessTTLMinutes) * time.Minute,
	}, nil
}

// Claims describes the JWT payload for both token kinds.
type Claims struct {
	RestaurantSlug string      `json:"restaurant_slug"`
	Role           domain.Role `json:"role"`
	UserID         string      `json:"user_id"`
	TokenType      string      `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// AccessTTL returns the configured access token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

// GenerateAccessToken signs a short-lived token for the user. A positive ttl
// overrides the configured lifetime.
func (tm *TokenManager) GenerateAccessToken(user *domain.User, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = tm.accessTTL
	}
	return tm.sign(user, ttl, "")
}

// GenerateRefreshToken signs a 7-day token usable only to mint new pairs.
func (tm *TokenManager) GenerateRefreshToken(user *domain.User) (string, time.Time, error) {
	return tm.sign(user, refreshTokenTTL, TokenTypeRefresh)
}

func (tm *TokenManager) sign(user *domain.User, ttl time.Duration, tokenType string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RestaurantSlug: user.RestaurantSlug,
		Role:           user.Role,
		UserID:         user.ID,
		TokenType:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(tm.method, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature and expiry and returns the claims. Any
// failure collapses to ErrTokenInvalid.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != tm.method {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.RestaurantSlug == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
