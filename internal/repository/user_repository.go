package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// UserRepository defines persistence access for credential records. Every
// lookup is scoped by restaurant slug; usernames only collide within a
// tenant.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, slug, username string) (*domain.User, error)
	GetActiveByUsername(ctx context.Context, slug, username string) (*domain.User, error)
	SetActive(ctx context.Context, slug, username string, active bool) error
	UpdateRole(ctx context.Context, slug, username string, role domain.Role) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, role, restaurant_slug, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.RestaurantSlug,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByUsername(ctx context.Context, slug, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, password_hash, role, restaurant_slug, is_active, created_at, updated_at
        FROM users WHERE restaurant_slug=$1 AND username=$2`
	return r.fetchSingle(ctx, query, slug, username)
}

func (r *userRepository) GetActiveByUsername(ctx context.Context, slug, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, password_hash, role, restaurant_slug, is_active, created_at, updated_at
        FROM users WHERE restaurant_slug=$1 AND username=$2 AND is_active`
	return r.fetchSingle(ctx, query, slug, username)
}

func (r *userRepository) SetActive(ctx context.Context, slug, username string, active bool) error {
	const query = `
        UPDATE users SET is_active=$1, updated_at=NOW()
        WHERE restaurant_slug=$2 AND username=$3`

	cmd, err := r.pool.Exec(ctx, query, active, slug, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) UpdateRole(ctx context.Context, slug, username string, role domain.Role) error {
	const query = `
        UPDATE users SET role=$1, updated_at=NOW()
        WHERE restaurant_slug=$2 AND username=$3`

	cmd, err := r.pool.Exec(ctx, query, role, slug, username)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query, slug, username string) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, slug, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.RestaurantSlug,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
