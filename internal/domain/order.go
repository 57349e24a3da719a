package domain

import "time"

// OrderStatus tracks an order through the kitchen.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered},
}

// CanTransitionTo reports whether a status change is allowed. Delivered and
// cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line item captured at order time. Name and unit price are
// snapshots of the product at that moment, not references.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Order is a customer order placed against a restaurant.
type Order struct {
	ID              string
	Reference       string
	RestaurantSlug  string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress *string
	Items           []OrderItem
	Subtotal        float64
	DeliveryFee     float64
	Total           float64
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
