package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/repository"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (r *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, _, id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, slug, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok || p.RestaurantSlug != slug {
		return nil, pgx.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) ListBySlug(_ context.Context, slug string, _ repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range r.products {
		if p.RestaurantSlug == slug {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders         map[string]*domain.Order
	seq            int
	duplicateRefs  int
	seenReferences []string
}

func (r *fakeOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.seenReferences = append(r.seenReferences, o.Reference)
	if r.duplicateRefs > 0 {
		r.duplicateRefs--
		return &pgconn.PgError{Code: "23505", ConstraintName: "orders_reference_key"}
	}
	r.seq++
	o.ID = "order-" + strconv.Itoa(r.seq)
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	stored := *o
	r.orders[o.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, slug, id string, status domain.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok || o.RestaurantSlug != slug {
		return pgx.ErrNoRows
	}
	o.Status = status
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, slug, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.RestaurantSlug != slug {
		return nil, pgx.ErrNoRows
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) ListBySlug(_ context.Context, slug string, _ repository.OrderFilter) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.RestaurantSlug == slug {
			out = append(out, *o)
		}
	}
	return out, nil
}

func newTestOrderService() (*OrderService, *fakeOrderRepo, *fakeProductRepo, events.Dispatcher) {
	products := &fakeProductRepo{products: map[string]*domain.Product{
		"p1": {ID: "p1", RestaurantSlug: "pizzaplace", Name: "Margherita", Price: 12.50, Available: true},
		"p2": {ID: "p2", RestaurantSlug: "pizzaplace", Name: "Calzone", Price: 9.90, Available: true},
		"p3": {ID: "p3", RestaurantSlug: "pizzaplace", Name: "Tiramisu", Price: 5.00, Available: false},
	}}
	orders := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	dispatcher := events.NewInMemoryDispatcher()
	return NewOrderService(orders, products, dispatcher), orders, products, dispatcher
}

func TestPlaceOrderComputesTotalsServerSide(t *testing.T) {
	svc, _, _, dispatcher := newTestOrderService()

	var published []events.Event
	dispatcher.Subscribe(events.EventOrderCreated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	order, err := svc.PlaceOrder(context.Background(), "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		DeliveryFee:   3.00,
		Items: []OrderItemInput{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.InDelta(t, 34.90, order.Subtotal, 0.001)
	require.InDelta(t, 37.90, order.Total, 0.001)
	require.Equal(t, "Margherita", order.Items[0].Name)
	require.InDelta(t, 12.50, order.Items[0].UnitPrice, 0.001)
	require.NotEmpty(t, order.Reference)

	require.Len(t, published, 1)
	require.Equal(t, order.ID, published[0].OrderID)
	require.Equal(t, "pizzaplace", published[0].RestaurantSlug)
}

func TestPlaceOrderRejectsUnavailableProduct(t *testing.T) {
	svc, _, _, _ := newTestOrderService()

	_, err := svc.PlaceOrder(context.Background(), "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p3", Quantity: 1}},
	})
	require.Error(t, err)
}

func TestPlaceOrderRejectsForeignTenantProduct(t *testing.T) {
	svc, _, _, _ := newTestOrderService()

	_, err := svc.PlaceOrder(context.Background(), "burgerbarn", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.Error(t, err)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _, _, _ := newTestOrderService()
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "pizzaplace", OrderCreateInput{
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.Error(t, err)

	_, err = svc.PlaceOrder(ctx, "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
	})
	require.Error(t, err)

	_, err = svc.PlaceOrder(ctx, "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p1", Quantity: 0}},
	})
	require.Error(t, err)
}

func TestUpdateStatusTransitionGuard(t *testing.T) {
	svc, _, _, dispatcher := newTestOrderService()
	ctx := context.Background()

	var published []events.Event
	dispatcher.Subscribe(events.EventOrderStatusChanged, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	order, err := svc.PlaceOrder(ctx, "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, "pizzaplace", order.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusConfirmed, updated.Status)
	require.Len(t, published, 1)

	// skipping ahead is not allowed
	_, err = svc.UpdateStatus(ctx, "pizzaplace", order.ID, domain.OrderStatusDelivered)
	require.ErrorIs(t, err, ErrInvalidTransition)

	// neither is going backwards
	_, err = svc.UpdateStatus(ctx, "pizzaplace", order.ID, domain.OrderStatusPending)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPlaceOrderRetriesOnReferenceCollision(t *testing.T) {
	svc, orders, _, _ := newTestOrderService()
	orders.duplicateRefs = 2

	order, err := svc.PlaceOrder(context.Background(), "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, orders.seenReferences, 3)
	require.NotEqual(t, orders.seenReferences[0], order.Reference)
	require.Equal(t, orders.seenReferences[2], order.Reference)
}

func TestPlaceOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	svc, orders, _, _ := newTestOrderService()
	orders.duplicateRefs = 3

	_, err := svc.PlaceOrder(context.Background(), "pizzaplace", OrderCreateInput{
		CustomerName:  "Dana",
		CustomerPhone: "555-0101",
		Items:         []OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	require.Equal(t, "23505", pgErr.Code)
}
