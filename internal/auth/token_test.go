package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:             "user-1",
		Username:       "alice",
		Role:           domain.RoleAdmin,
		RestaurantSlug: "pizzaplace",
		IsActive:       true,
	}
}

func TestNewTokenManagerRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewTokenManager("secret", "HS999", 30)
	require.Error(t, err)

	// Asymmetric methods need key material this manager does not hold.
	_, err = NewTokenManager("secret", "RS256", 30)
	require.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("secret", "HS256", 30)
	require.NoError(t, err)

	token, expiresAt, err := tm.GenerateAccessToken(testUser(), 0)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.Equal(t, "pizzaplace", claims.RestaurantSlug)
	require.Equal(t, domain.RoleAdmin, claims.Role)
	require.Equal(t, "user-1", claims.UserID)
	require.Empty(t, claims.TokenType)
}

func TestRefreshTokenCarriesDiscriminator(t *testing.T) {
	tm, err := NewTokenManager("secret", "HS256", 30)
	require.NoError(t, err)

	token, expiresAt, err := tm.GenerateRefreshToken(testUser())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseTokenExpired(t *testing.T) {
	tm, err := NewTokenManager("secret", "HS256", 30)
	require.NoError(t, err)

	token, _, err := tm.sign(testUser(), -time.Minute, "")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tm, err := NewTokenManager("secret", "HS256", 30)
	require.NoError(t, err)
	other, err := NewTokenManager("different", "HS256", 30)
	require.NoError(t, err)

	token, _, err := tm.GenerateAccessToken(testUser(), 0)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenMalformed(t *testing.T) {
	tm, err := NewTokenManager("secret", "HS256", 30)
	require.NoError(t, err)

	for _, garbage := range []string{"", "not.a.jwt", "a.b", "abc"} {
		_, err := tm.ParseToken(garbage)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestParseTokenFailuresIndistinguishable(t *testing.T) {
	tm, err := NewTokenManager("secret", "HS256", 30)
	require.NoError(t, err)
	other, err := NewTokenManager("different", "HS256", 30)
	require.NoError(t, err)

	expired, _, err := tm.sign(testUser(), -time.Minute, "")
	require.NoError(t, err)
	forged, _, err := other.GenerateAccessToken(testUser(), 0)
	require.NoError(t, err)

	_, expiredErr := tm.ParseToken(expired)
	_, forgedErr := tm.ParseToken(forged)
	_, malformedErr := tm.ParseToken("garbage")

	require.Equal(t, expiredErr, forgedErr)
	require.Equal(t, forgedErr, malformedErr)
}
