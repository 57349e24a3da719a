package dto

import (
	"time"

	"github.com/spec-kit/restaurant-service/internal/domain"
)

// OrderItemRequest is a requested line item; unit prices are looked up
// server-side.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderCreateRequest payload for order placement.
type OrderCreateRequest struct {
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	DeliveryAddress *string            `json:"delivery_address,omitempty"`
	DeliveryFee     float64            `json:"delivery_fee"`
	Items           []OrderItemRequest `json:"items"`
}

// OrderStatusRequest payload for status updates.
type OrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse wire shape of an order.
type OrderResponse struct {
	ID              string             `json:"id"`
	Reference       string             `json:"reference"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	DeliveryAddress *string            `json:"delivery_address,omitempty"`
	Items           []domain.OrderItem `json:"items"`
	Subtotal        float64            `json:"subtotal"`
	DeliveryFee     float64            `json:"delivery_fee"`
	Total           float64            `json:"total"`
	Status          domain.OrderStatus `json:"status"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// NewOrderResponse maps a domain order.
func NewOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		Reference:       o.Reference,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryAddress: o.DeliveryAddress,
		Items:           o.Items,
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		Status:          o.Status,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// NewOrderListResponse maps an order slice.
func NewOrderListResponse(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return out
}
