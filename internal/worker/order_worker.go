package worker

import (
	"github.com/spec-kit/restaurant-service/internal/service"
)

// StartOrderWorker registers order event handlers.
func StartOrderWorker(notifier *service.OrderNotifier) {
	if notifier == nil {
		return
	}
	notifier.RegisterHandlers()
}
