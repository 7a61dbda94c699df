package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events. Publishing is best effort:
// the engine's state is already committed when an event goes out, so publish
// failures are logged, never propagated to the caller.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer, logger: util.GetLogger()}
}

func orderKey(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}

// NewBase fills the common event fields
func NewBase(eventType, restaurantID string) models.BaseEvent {
	return models.BaseEvent{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		RestaurantID: restaurantID,
		Timestamp:    time.Now(),
	}
}

func (ep *EventPublisher) publish(ctx context.Context, key string, event interface{}) {
	if ep == nil || ep.producer == nil {
		return
	}
	if err := ep.producer.PublishEvent(ctx, key, event); err != nil {
		ep.logger.Error("Failed to publish event",
			zap.String("key", key),
			zap.Error(err))
	}
}

// OrderCreated publishes an OrderCreated event
func (ep *EventPublisher) OrderCreated(ctx context.Context, event *models.OrderCreatedEvent) {
	ep.publish(ctx, orderKey(event.OrderID), event)
}

// OrderStatusChanged publishes an OrderStatusChanged event
func (ep *EventPublisher) OrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) {
	ep.publish(ctx, orderKey(event.OrderID), event)
}

// OrderCancelled publishes an OrderCancelled event
func (ep *EventPublisher) OrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) {
	ep.publish(ctx, orderKey(event.OrderID), event)
}

// DeliveryAssigned publishes a DeliveryAssigned event
func (ep *EventPublisher) DeliveryAssigned(ctx context.Context, event *models.DeliveryAssignedEvent) {
	ep.publish(ctx, orderKey(event.OrderID), event)
}

// PaymentRecorded publishes a PaymentRecorded event
func (ep *EventPublisher) PaymentRecorded(ctx context.Context, event *models.PaymentRecordedEvent) {
	ep.publish(ctx, orderKey(event.OrderID), event)
}

// StockAdjusted publishes a StockAdjusted event
func (ep *EventPublisher) StockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) {
	ep.publish(ctx, orderKey(event.OrderID), event)
}

// EventHandler routes incoming events to registered handlers
type EventHandler struct {
	onOrderCreated       func(context.Context, *models.OrderCreatedEvent) error
	onOrderStatusChanged func(context.Context, *models.OrderStatusChangedEvent) error
	onDeliveryAssigned   func(context.Context, *models.DeliveryAssignedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderCreated registers a handler for OrderCreated events
func (eh *EventHandler) OnOrderCreated(handler func(context.Context, *models.OrderCreatedEvent) error) {
	eh.onOrderCreated = handler
}

// OnOrderStatusChanged registers a handler for OrderStatusChanged events
func (eh *EventHandler) OnOrderStatusChanged(handler func(context.Context, *models.OrderStatusChangedEvent) error) {
	eh.onOrderStatusChanged = handler
}

// OnDeliveryAssigned registers a handler for DeliveryAssigned events
func (eh *EventHandler) OnDeliveryAssigned(handler func(context.Context, *models.DeliveryAssignedEvent) error) {
	eh.onDeliveryAssigned = handler
}

// HandleMessage routes messages to the appropriate handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderCreated:
		if eh.onOrderCreated != nil {
			var event models.OrderCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
			}
			return eh.onOrderCreated(ctx, &event)
		}

	case models.EventTypeOrderStatusChanged:
		if eh.onOrderStatusChanged != nil {
			var event models.OrderStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
			}
			return eh.onOrderStatusChanged(ctx, &event)
		}

	case models.EventTypeDeliveryAssigned:
		if eh.onDeliveryAssigned != nil {
			var event models.DeliveryAssignedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DeliveryAssigned event: %w", err)
			}
			return eh.onDeliveryAssigned(ctx, &event)
		}
	}

	return nil
}
