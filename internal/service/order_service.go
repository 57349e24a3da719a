package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/repository"
)

// ErrInvalidTransition signals a disallowed order status change.
var ErrInvalidTransition = errors.New("invalid order status transition")

// OrderService coordinates order placement and kitchen workflow.
type OrderService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, products: products, dispatcher: dispatcher}
}

// OrderItemInput is a requested line item. Prices come from the stored
// product, never from the client.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// OrderCreateInput describes order placement payload.
type OrderCreateInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress *string
	DeliveryFee     float64
	Items           []OrderItemInput
}

// PlaceOrder creates an order against current menu prices and publishes an
// order_created event.
func (s *OrderService) PlaceOrder(ctx context.Context, slug string, input OrderCreateInput) (*domain.Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	phone := strings.TrimSpace(input.CustomerPhone)
	if name == "" || phone == "" {
		return nil, errors.New("customer name and phone required")
	}
	if len(input.Items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}
	if input.DeliveryFee < 0 {
		return nil, errors.New("delivery fee cannot be negative")
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	subtotal := 0.0
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		product, err := s.products.GetByID(ctx, slug, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Available {
			return nil, errors.New("product unavailable: " + product.Name)
		}
		items = append(items, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		subtotal += product.Price * float64(item.Quantity)
	}

	subtotal = roundCents(subtotal)
	order := &domain.Order{
		Reference:       generateOrderReference(),
		RestaurantSlug:  slug,
		CustomerName:    name,
		CustomerPhone:   phone,
		DeliveryAddress: input.DeliveryAddress,
		Items:           items,
		Subtotal:        subtotal,
		DeliveryFee:     roundCents(input.DeliveryFee),
		Total:           roundCents(subtotal + input.DeliveryFee),
		Status:          domain.OrderStatusPending,
	}

	// the reference is short enough to collide eventually; the unique
	// constraint catches it and we retry with a fresh code
	var createErr error
	for attempt := 0; attempt < 3; attempt++ {
		if createErr = s.orders.Create(ctx, order); createErr == nil {
			break
		}
		var pgErr *pgconn.PgError
		if !errors.As(createErr, &pgErr) || pgErr.Code != uniqueViolationCode {
			return nil, createErr
		}
		order.Reference = generateOrderReference()
	}
	if createErr != nil {
		return nil, createErr
	}

	s.publishEvent(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventOrderCreated,
		OrderID:        order.ID,
		RestaurantSlug: slug,
		Timestamp:      time.Now(),
		Payload: events.OrderCreatedPayload{
			Reference:    order.Reference,
			CustomerName: order.CustomerName,
			Total:        order.Total,
			ItemCount:    len(order.Items),
		},
	})
	return order, nil
}

// GetOrder fetches a single order scoped by tenant.
func (s *OrderService) GetOrder(ctx context.Context, slug, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, slug, id)
}

// ListOrders returns the tenant's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, slug string, filter repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.ListBySlug(ctx, slug, filter)
}

// UpdateStatus moves an order through the kitchen workflow, enforcing the
// transition guard, and publishes an order_status_changed event.
func (s *OrderService) UpdateStatus(ctx context.Context, slug, id string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.orders.UpdateStatus(ctx, slug, id, next); err != nil {
		return nil, err
	}

	oldStatus := order.Status
	order.Status = next
	s.publishEvent(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           events.EventOrderStatusChanged,
		OrderID:        order.ID,
		RestaurantSlug: slug,
		Timestamp:      time.Now(),
		Payload: events.OrderStatusChangedPayload{
			Reference: order.Reference,
			OldStatus: oldStatus,
			NewStatus: next,
		},
	})
	return order, nil
}

func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// generateOrderReference produces a short human-facing order code.
func generateOrderReference() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
