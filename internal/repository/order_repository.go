package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// OrderFilter captures admin listing parameters.
type OrderFilter struct {
	Statuses []domain.OrderStatus
	Limit    int
	Offset   int
}

// OrderRepository encapsulates order persistence. Items live in a jsonb
// column; pgx handles the (un)marshalling.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, slug, id string, status domain.OrderStatus) error
	GetByID(ctx context.Context, slug, id string) (*domain.Order, error)
	ListBySlug(ctx context.Context, slug string, filter OrderFilter) ([]domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (reference, restaurant_slug, customer_name, customer_phone, delivery_address,
                            items, subtotal, delivery_fee, total, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		order.Reference,
		order.RestaurantSlug,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryAddress,
		order.Items,
		order.Subtotal,
		order.DeliveryFee,
		order.Total,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, slug, id string, status domain.OrderStatus) error {
	const query = `
        UPDATE orders SET status=$1, updated_at=NOW()
        WHERE restaurant_slug=$2 AND id=$3`

	cmd, err := r.pool.Exec(ctx, query, status, slug, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, slug, id string) (*domain.Order, error) {
	const query = `
        SELECT id, reference, restaurant_slug, customer_name, customer_phone, delivery_address,
               items, subtotal, delivery_fee, total, status, created_at, updated_at
        FROM orders WHERE restaurant_slug=$1 AND id=$2`

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, slug, id).Scan(
		&order.ID,
		&order.Reference,
		&order.RestaurantSlug,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.DeliveryAddress,
		&order.Items,
		&order.Subtotal,
		&order.DeliveryFee,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListBySlug(ctx context.Context, slug string, filter OrderFilter) ([]domain.Order, error) {
	conditions := []string{"restaurant_slug=$1"}
	args := []any{slug}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			args = append(args, status)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit, filter.Offset)

	query := fmt.Sprintf(`
        SELECT id, reference, restaurant_slug, customer_name, customer_phone, delivery_address,
               items, subtotal, delivery_fee, total, status, created_at, updated_at
        FROM orders WHERE %s
        ORDER BY created_at DESC
        LIMIT $%d OFFSET $%d`, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.Reference,
			&order.RestaurantSlug,
			&order.CustomerName,
			&order.CustomerPhone,
			&order.DeliveryAddress,
			&order.Items,
			&order.Subtotal,
			&order.DeliveryFee,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
