package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// ProductFilter captures menu listing parameters.
type ProductFilter struct {
	CategoryID    *string
	SearchTerm    *string
	AvailableOnly bool
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, slug, id string) error
	GetByID(ctx context.Context, slug, id string) (*domain.Product, error)
	ListBySlug(ctx context.Context, slug string, filter ProductFilter) ([]domain.Product, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (restaurant_slug, category_id, name, description, price, image, available)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		product.RestaurantSlug,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.Available,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET category_id=$1, name=$2, description=$3, price=$4, image=$5, available=$6, updated_at=NOW()
        WHERE restaurant_slug=$7 AND id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Price,
		product.Image,
		product.Available,
		product.RestaurantSlug,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, slug, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE restaurant_slug=$1 AND id=$2`, slug, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, slug, id string) (*domain.Product, error) {
	const query = `
        SELECT id, restaurant_slug, category_id, name, description, price, image, available, created_at, updated_at
        FROM products WHERE restaurant_slug=$1 AND id=$2`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, slug, id).Scan(
		&product.ID,
		&product.RestaurantSlug,
		&product.CategoryID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Image,
		&product.Available,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListBySlug(ctx context.Context, slug string, filter ProductFilter) ([]domain.Product, error) {
	conditions := []string{"restaurant_slug=$1"}
	args := []any{slug}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		args = append(args, "%"+*filter.SearchTerm+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.AvailableOnly {
		conditions = append(conditions, "available")
	}

	query := fmt.Sprintf(`
        SELECT id, restaurant_slug, category_id, name, description, price, image, available, created_at, updated_at
        FROM products WHERE %s
        ORDER BY name`, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.RestaurantSlug,
			&product.CategoryID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Image,
			&product.Available,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}
