package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// RestaurantRepository encapsulates tenant persistence.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	Update(ctx context.Context, restaurant *domain.Restaurant) error
	GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error)
}

type restaurantRepository struct {
	pool *pgxpool.Pool
}

// NewRestaurantRepository instantiates repository.
func NewRestaurantRepository(pool *pgxpool.Pool) RestaurantRepository {
	return &restaurantRepository{pool: pool}
}

func (r *restaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	const query = `
        INSERT INTO restaurants (slug, name, description, address, phone, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		restaurant.Slug,
		restaurant.Name,
		restaurant.Description,
		restaurant.Address,
		restaurant.Phone,
		restaurant.IsActive,
	).Scan(&restaurant.ID, &restaurant.CreatedAt, &restaurant.UpdatedAt)
}

func (r *restaurantRepository) Update(ctx context.Context, restaurant *domain.Restaurant) error {
	const query = `
        UPDATE restaurants SET name=$1, description=$2, address=$3, phone=$4, is_active=$5, updated_at=NOW()
        WHERE slug=$6`

	cmd, err := r.pool.Exec(ctx, query,
		restaurant.Name,
		restaurant.Description,
		restaurant.Address,
		restaurant.Phone,
		restaurant.IsActive,
		restaurant.Slug,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *restaurantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	const query = `
        SELECT id, slug, name, description, address, phone, is_active, created_at, updated_at
        FROM restaurants WHERE slug=$1`

	var restaurant domain.Restaurant
	if err := r.pool.QueryRow(ctx, query, slug).Scan(
		&restaurant.ID,
		&restaurant.Slug,
		&restaurant.Name,
		&restaurant.Description,
		&restaurant.Address,
		&restaurant.Phone,
		&restaurant.IsActive,
		&restaurant.CreatedAt,
		&restaurant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &restaurant, nil
}
