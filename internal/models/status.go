package models

// Order statuses
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusNew            OrderStatus = "NEW"
	OrderStatusPreparing      OrderStatus = "PREPARING"
	OrderStatusReady          OrderStatus = "READY"
	OrderStatusEnRoute        OrderStatus = "EN_ROUTE"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusIssue          OrderStatus = "ISSUE"
	OrderStatusReturned       OrderStatus = "RETURNED"
)

// Order fulfillment channels
type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeaway OrderType = "TAKEAWAY"
	OrderTypeDelivery OrderType = "DELIVERY"
)

type TableStatus string

const (
	TableStatusFree          TableStatus = "FREE"
	TableStatusOccupied      TableStatus = "OCCUPIED"
	TableStatusNeedsCleaning TableStatus = "NEEDS_CLEANING"
)

type DeliveryStatus string

const (
	DeliveryStatusAvailable  DeliveryStatus = "AVAILABLE"
	DeliveryStatusOnDelivery DeliveryStatus = "ON_DELIVERY"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleManager  UserRole = "MANAGER"
	RoleWaiter   UserRole = "WAITER"
	RoleKitchen  UserRole = "KITCHEN"
	RoleDelivery UserRole = "DELIVERY"
)

type IngredientCategory string

const (
	IngredientCategoryGeneral IngredientCategory = "GENERAL"
	IngredientCategoryDrink   IngredientCategory = "DRINK"
)

type PaymentStatus string

const (
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type CouponType string

const (
	CouponTypePercent CouponType = "PERCENT"
	CouponTypeFixed   CouponType = "FIXED"
)

// TypeRule centralizes the per-channel lifecycle rules so they live in one
// table instead of scattered conditionals.
type TypeRule struct {
	InitialStatus            OrderStatus
	RequiresTable            bool
	RequiresVerifiedCustomer bool
}

var typeRules = map[OrderType]TypeRule{
	OrderTypeDineIn:   {InitialStatus: OrderStatusNew, RequiresTable: true},
	OrderTypeTakeaway: {InitialStatus: OrderStatusPendingPayment},
	OrderTypeDelivery: {InitialStatus: OrderStatusNew, RequiresVerifiedCustomer: true},
}

// RuleFor returns the lifecycle rule for an order type. The second result is
// false for unknown types.
func RuleFor(t OrderType) (TypeRule, bool) {
	r, ok := typeRules[t]
	return r, ok
}

// orderTransitions lists the permitted status moves common to all channels.
// Channel-specific moves are handled in CanTransition.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingPayment: {OrderStatusNew, OrderStatusDelivered},
	OrderStatusNew:            {OrderStatusPreparing},
	OrderStatusPreparing:      {OrderStatusReady},
	OrderStatusReady:          {OrderStatusPendingPayment},
	OrderStatusIssue:          {OrderStatusDelivered, OrderStatusEnRoute, OrderStatusReturned},
}

// CanTransition reports whether an order of the given type may move from one
// status to another via setStatus. Cancellation goes through CanCancel.
func CanTransition(t OrderType, from, to OrderStatus) bool {
	if from == to {
		return false
	}
	switch {
	// TAKEAWAY was paid up front, so READY goes straight to DELIVERED.
	case from == OrderStatusReady && to == OrderStatusDelivered && t == OrderTypeTakeaway:
		return true
	// DELIVERY-only transit sub-chain.
	case from == OrderStatusReady && to == OrderStatusEnRoute && t == OrderTypeDelivery:
		return true
	case from == OrderStatusEnRoute && (to == OrderStatusDelivered || to == OrderStatusIssue) && t == OrderTypeDelivery:
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ShouldDeductStock reports whether moving prev -> next must deduct ingredient
// stock. Firing only on the first entry into PREPARING makes the deduction
// at-most-once per order no matter how many times setStatus is called.
func ShouldDeductStock(prev, next OrderStatus) bool {
	return prev != OrderStatusPreparing && next == OrderStatusPreparing
}

// stockDeductedStatuses are the statuses an order can only hold after its
// ingredients were deducted; cancelling from one of them restores stock.
var stockDeductedStatuses = map[OrderStatus]bool{
	OrderStatusPreparing: true,
	OrderStatusReady:     true,
	OrderStatusEnRoute:   true,
	OrderStatusIssue:     true,
}

// StockDeducted reports whether an order in the given status holds deducted
// ingredient stock.
func StockDeducted(s OrderStatus) bool {
	return stockDeductedStatuses[s]
}

var cancellableStatuses = map[OrderStatus]bool{
	OrderStatusNew:            true,
	OrderStatusPreparing:      true,
	OrderStatusReady:          true,
	OrderStatusEnRoute:        true,
	OrderStatusIssue:          true,
	OrderStatusPendingPayment: true,
}

// CanCancel reports whether an order in the given status may be cancelled.
func CanCancel(s OrderStatus) bool {
	return cancellableStatuses[s]
}

var terminalStatuses = map[OrderStatus]bool{
	OrderStatusDelivered: true,
	OrderStatusCancelled: true,
	OrderStatusReturned:  true,
}

// IsTerminal reports whether the status ends the order lifecycle. Reaching a
// terminal status releases an assigned delivery person.
func IsTerminal(s OrderStatus) bool {
	return terminalStatuses[s]
}

// ActiveOrderStatuses are the statuses during which an order still blocks
// menu-item deletion.
var ActiveOrderStatuses = []OrderStatus{
	OrderStatusNew,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusEnRoute,
}
