package worker

import (
	"context"
	"time"

	"resto-pos/internal/broker"
	"resto-pos/internal/models"
	"resto-pos/internal/service"
	"resto-pos/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker turns order events into notifications for the kitchen
// and delivery displays. Delivery of notifications is a log line here; the
// push channel sits behind it in production.
type NotificationWorker struct {
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer) *NotificationWorker {
	return &NotificationWorker{consumer: consumer, logger: util.GetLogger()}
}

// Start consumes order events until the context is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	handler := broker.NewEventHandler()

	handler.OnOrderCreated(func(ctx context.Context, event *models.OrderCreatedEvent) error {
		if event.Status == models.OrderStatusNew {
			w.logger.Info("Kitchen notified of new order",
				zap.Int64("order_id", event.OrderID),
				zap.String("type", string(event.OrderType)))
		}
		return nil
	})

	handler.OnOrderStatusChanged(func(ctx context.Context, event *models.OrderStatusChangedEvent) error {
		switch event.Current {
		case models.OrderStatusNew:
			// Paid takeaway orders reach the kitchen through this transition.
			w.logger.Info("Kitchen notified of new order",
				zap.Int64("order_id", event.OrderID),
				zap.String("type", string(event.OrderType)))
		case models.OrderStatusReady:
			w.logger.Info("Order ready for pickup",
				zap.Int64("order_id", event.OrderID),
				zap.String("type", string(event.OrderType)))
		case models.OrderStatusIssue:
			w.logger.Warn("Delivery issue reported",
				zap.Int64("order_id", event.OrderID))
		}
		return nil
	})

	handler.OnDeliveryAssigned(func(ctx context.Context, event *models.DeliveryAssignedEvent) error {
		w.logger.Info("Delivery person notified",
			zap.Int64("order_id", event.OrderID),
			zap.String("delivery_person_id", event.DeliveryPersonID))
		return nil
	})

	return w.consumer.StartConsuming(ctx, handler.HandleMessage)
}

// Stop closes the underlying consumer
func (w *NotificationWorker) Stop() {
	if err := w.consumer.Close(); err != nil {
		w.logger.Warn("Failed to close consumer", zap.Error(err))
	}
}

// CustomerStatsWorker maintains per-customer purchase statistics off the
// event stream: lifetime value, last purchase time and average days between
// purchases. Driven by DELIVERED transitions so only completed orders count.
type CustomerStatsWorker struct {
	consumer *broker.Consumer
	store    service.Store
	logger   *zap.Logger
}

// NewCustomerStatsWorker creates a new customer stats worker
func NewCustomerStatsWorker(consumer *broker.Consumer, store service.Store) *CustomerStatsWorker {
	return &CustomerStatsWorker{consumer: consumer, store: store, logger: util.GetLogger()}
}

// Start consumes order events until the context is cancelled
func (w *CustomerStatsWorker) Start(ctx context.Context) error {
	handler := broker.NewEventHandler()
	handler.OnOrderStatusChanged(func(ctx context.Context, event *models.OrderStatusChangedEvent) error {
		if event.Current != models.OrderStatusDelivered || event.CustomerID == nil {
			return nil
		}
		return w.recordPurchase(ctx, *event.CustomerID, event.Total, event.Timestamp)
	})
	return w.consumer.StartConsuming(ctx, handler.HandleMessage)
}

// Stop closes the underlying consumer
func (w *CustomerStatsWorker) Stop() {
	if err := w.consumer.Close(); err != nil {
		w.logger.Warn("Failed to close consumer", zap.Error(err))
	}
}

func (w *CustomerStatsWorker) recordPurchase(ctx context.Context, customerID string, total float64, at time.Time) error {
	customer, err := w.store.GetCustomer(ctx, customerID)
	if err != nil {
		w.logger.Warn("Customer stats skipped, customer not found",
			zap.String("customer_id", customerID))
		return nil
	}

	ltv := customer.LTV + total
	avg := customer.AvgFrequencyDays
	delivered, err := w.store.CountDeliveredOrdersForCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if !customer.LastPurchaseAt.IsZero() && delivered > 1 {
		gapDays := at.Sub(customer.LastPurchaseAt).Hours() / 24
		if gapDays < 0 {
			gapDays = 0
		}
		// Running average over the gaps between consecutive purchases.
		n := float64(delivered - 1)
		avg = (avg*(n-1) + gapDays) / n
	}

	if err := w.store.UpdateCustomerStats(ctx, customerID, ltv, at, avg); err != nil {
		return err
	}
	w.logger.Info("Customer stats updated",
		zap.String("customer_id", customerID),
		zap.Float64("ltv", ltv),
		zap.Float64("avg_frequency_days", avg))
	return nil
}
