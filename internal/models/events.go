package models

import "time"

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderCancelled     = "ORDER_CANCELLED"
	EventTypeDeliveryAssigned   = "DELIVERY_ASSIGNED"
	EventTypePaymentRecorded    = "PAYMENT_RECORDED"
	EventTypeStockAdjusted      = "STOCK_ADJUSTED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	RestaurantID string    `json:"restaurant_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	OrderID    int64       `json:"order_id"`
	OrderType  OrderType   `json:"order_type"`
	Status     OrderStatus `json:"status"`
	TableID    *int64      `json:"table_id,omitempty"`
	CustomerID *string     `json:"customer_id,omitempty"`
	Total      float64     `json:"total"`
}

// OrderStatusChangedEvent published on every setStatus transition
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID          int64       `json:"order_id"`
	OrderType        OrderType   `json:"order_type"`
	Previous         OrderStatus `json:"previous"`
	Current          OrderStatus `json:"current"`
	CustomerID       *string     `json:"customer_id,omitempty"`
	DeliveryPersonID *string     `json:"delivery_person_id,omitempty"`
	Total            float64     `json:"total"`
}

// OrderCancelledEvent published when an order is cancelled
type OrderCancelledEvent struct {
	BaseEvent
	OrderID       int64       `json:"order_id"`
	Previous      OrderStatus `json:"previous"`
	StockRestored bool        `json:"stock_restored"`
}

// DeliveryAssignedEvent published when a delivery person takes an order
type DeliveryAssignedEvent struct {
	BaseEvent
	OrderID          int64  `json:"order_id"`
	DeliveryPersonID string `json:"delivery_person_id"`
}

// PaymentRecordedEvent published for each payment added to an order
type PaymentRecordedEvent struct {
	BaseEvent
	OrderID   int64   `json:"order_id"`
	PaymentID string  `json:"payment_id"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	FullyPaid bool    `json:"fully_paid"`
}

// StockAdjustedEvent published when an order deducts or restores ingredient
// stock, with the per-ingredient deltas that were applied.
type StockAdjustedEvent struct {
	BaseEvent
	OrderID int64              `json:"order_id"`
	Deltas  map[string]float64 `json:"deltas"`
}
