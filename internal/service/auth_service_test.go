package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/restaurant-service/internal/config"
	"github.com/spec-kit/restaurant-service/internal/domain"
)

// fakeUserRepo is an in-memory UserRepository keyed by (slug, username).
type fakeUserRepo struct {
	users map[string]*domain.User
	seq   int

	failLookups bool
	hideLookups bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func userKey(slug, username string) string {
	return slug + "/" + username
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	key := userKey(user.RestaurantSlug, user.Username)
	if _, exists := r.users[key]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_restaurant_username_key"}
	}
	r.seq++
	user.ID = "user-" + strconv.Itoa(r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[key] = &stored
	return nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, slug, username string) (*domain.User, error) {
	if r.failLookups {
		return nil, errors.New("connection refused")
	}
	if r.hideLookups {
		return nil, pgx.ErrNoRows
	}
	user, ok := r.users[userKey(slug, username)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetActiveByUsername(ctx context.Context, slug, username string) (*domain.User, error) {
	user, err := r.GetByUsername(ctx, slug, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, slug, username string, active bool) error {
	user, ok := r.users[userKey(slug, username)]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, slug, username string, role domain.Role) error {
	user, ok := r.users[userKey(slug, username)]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	return nil
}

func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	svc, err := NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		JWTAlgorithm:          "HS256",
		AccessTokenTTLMinutes: 30,
		BcryptCost:            bcrypt.MinCost,
	}, repo, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestCreateAndAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	result, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)
	require.Equal(t, "bearer", result.TokenType)
	require.Equal(t, 30*60, result.ExpiresIn)
	require.Equal(t, "alice", result.User.Username)
	require.Equal(t, domain.RoleAdmin, result.User.Role)
	require.Equal(t, "pizzaplace", result.User.RestaurantSlug)
}

func TestCreateUserDefaultsToAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.CreateUser(context.Background(), "bob", "pw", "pizzaplace", "")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, repo.users[userKey("pizzaplace", "bob")].Role)
}

func TestCreateUserDuplicate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "alice", "other", "pizzaplace", domain.RoleAdmin)
	require.ErrorIs(t, err, ErrUserExists)

	// same username in another tenant is fine
	_, err = svc.CreateUser(ctx, "alice", "secret123", "burgerbarn", domain.RoleAdmin)
	require.NoError(t, err)
}

func TestCreateUserUniqueIndexRace(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)

	// simulate the race window: the lookup misses the existing row, so the
	// conflict only surfaces through the unique index on insert
	repo.hideLookups = true
	_, err = svc.CreateUser(ctx, "alice", "other", "pizzaplace", domain.RoleAdmin)
	require.ErrorIs(t, err, ErrUserExists)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "carol", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, "pizzaplace", "carol", false))

	_, wrongPassword := svc.Authenticate(ctx, "alice", "wrong", "pizzaplace")
	_, unknownUser := svc.Authenticate(ctx, "nobody", "secret123", "pizzaplace")
	_, wrongTenant := svc.Authenticate(ctx, "alice", "secret123", "burgerbarn")
	_, inactive := svc.Authenticate(ctx, "carol", "secret123", "pizzaplace")

	require.ErrorIs(t, wrongPassword, ErrNotAuthenticated)
	require.Equal(t, wrongPassword, unknownUser)
	require.Equal(t, unknownUser, wrongTenant)
	require.Equal(t, wrongTenant, inactive)
}

func TestAuthenticateStorageFaultCollapses(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	repo.failLookups = true
	_, err := svc.Authenticate(context.Background(), "alice", "secret123", "pizzaplace")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVerifyTokenReturnsCurrentState(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	result, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)

	user, err := svc.VerifyToken(ctx, result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, domain.RoleAdmin, user.Role)
	require.Equal(t, "pizzaplace", user.RestaurantSlug)
}

func TestVerifyTokenAfterDeactivation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	result, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, "pizzaplace", "alice", false))

	// the token is still signed and unexpired, but the account state wins
	_, err = svc.VerifyToken(ctx, result.AccessToken)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVerifyTokenRejectsRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	result, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, result.RefreshToken)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRefreshRotatesTokens(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	first, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, second.AccessToken)
	require.NotEmpty(t, second.RefreshToken)
	require.Equal(t, first.User, second.User)

	// the new access token verifies
	_, err = svc.VerifyToken(ctx, second.AccessToken)
	require.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	result, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, result.AccessToken)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRefreshAfterDeactivation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "secret123", "pizzaplace", domain.RoleAdmin)
	require.NoError(t, err)
	result, err := svc.Authenticate(ctx, "alice", "secret123", "pizzaplace")
	require.NoError(t, err)

	require.NoError(t, repo.SetActive(ctx, "pizzaplace", "alice", false))

	_, err = svc.Refresh(ctx, result.RefreshToken)
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRefreshGarbageToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)

	_, err := svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}
