package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// CategoryRepository encapsulates menu category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, slug, id string) error
	GetByID(ctx context.Context, slug, id string) (*domain.Category, error)
	ListBySlug(ctx context.Context, slug string) ([]domain.Category, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (restaurant_slug, name, position)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		category.RestaurantSlug,
		category.Name,
		category.Position,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET name=$1, position=$2, updated_at=NOW()
        WHERE restaurant_slug=$3 AND id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Position,
		category.RestaurantSlug,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, slug, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE restaurant_slug=$1 AND id=$2`, slug, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, slug, id string) (*domain.Category, error) {
	const query = `
        SELECT id, restaurant_slug, name, position, created_at, updated_at
        FROM categories WHERE restaurant_slug=$1 AND id=$2`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, slug, id).Scan(
		&category.ID,
		&category.RestaurantSlug,
		&category.Name,
		&category.Position,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListBySlug(ctx context.Context, slug string) ([]domain.Category, error) {
	const query = `
        SELECT id, restaurant_slug, name, position, created_at, updated_at
        FROM categories WHERE restaurant_slug=$1
        ORDER BY position, name`

	rows, err := r.pool.Query(ctx, query, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID,
			&category.RestaurantSlug,
			&category.Name,
			&category.Position,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}
