package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/restaurant-service/internal/events"
	"github.com/spec-kit/restaurant-service/internal/observability"
)

// OrderNotifier fans order events out to the log and to a per-restaurant
// Redis channel the PWA frontend subscribes to for live order updates. It
// also keeps the per-restaurant order counter.
type OrderNotifier struct {
	dispatcher events.Dispatcher
	redis      *redis.Client
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewOrderNotifier creates the notifier.
func NewOrderNotifier(dispatcher events.Dispatcher, redisClient *redis.Client, metrics *observability.Metrics, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{dispatcher: dispatcher, redis: redisClient, metrics: metrics, logger: logger}
}

// RegisterHandlers subscribes to order events.
func (n *OrderNotifier) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderEvent)
	n.dispatcher.Subscribe(events.EventOrderStatusChanged, n.handleOrderEvent)
}

func (n *OrderNotifier) handleOrderEvent(ctx context.Context, event events.Event) error {
	if event.Type == events.EventOrderCreated {
		n.metrics.RecordOrderPlaced(event.RestaurantSlug)
	}
	n.logger.Info(string(event.Type),
		zap.String("order_id", event.OrderID),
		zap.String("restaurant_slug", event.RestaurantSlug),
		zap.Any("payload", event.Payload))
	n.publishToRedis(ctx, event)
	return nil
}

func (n *OrderNotifier) publishToRedis(ctx context.Context, event events.Event) {
	if n.redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal order event", zap.Error(err))
		return
	}
	channel := "orders:" + event.RestaurantSlug
	if err := n.redis.Publish(ctx, channel, payload).Err(); err != nil {
		n.logger.Warn("publish order event", zap.String("channel", channel), zap.Error(err))
	}
}
