package service

import (
	"context"

	"resto-pos/internal/apperr"
	"resto-pos/internal/broker"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records payments against orders. Payments accumulate: no
// single payment needs to cover the total, and once the accumulated amount
// does, a PENDING_PAYMENT order completes on its own.
type PaymentService struct {
	orders *OrderService
	store  Store
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(orders *OrderService, store Store, events *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		orders: orders,
		store:  store,
		events: events,
		logger: util.GetLogger(),
	}
}

// AddPaymentInput is one payment to record. Tip, when given, replaces the
// order tip before the payment is applied so change is computed against the
// final total.
type AddPaymentInput struct {
	Method string   `json:"method" binding:"required"`
	Amount float64  `json:"amount" binding:"required"`
	Tip    *float64 `json:"tip"`
}

// AddPayment records a payment. When the order sits in PENDING_PAYMENT and
// the accumulated payments reach the total, the order moves on: a takeaway
// order goes to the kitchen as NEW, anything else completes as DELIVERED.
// Repeated calls past that point just record further payments; the
// completion transition fires at most once because the order has left
// PENDING_PAYMENT.
func (s *PaymentService) AddPayment(ctx context.Context, orderID int64, input AddPaymentInput) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.AddPayment")
	defer span.End()

	if input.Amount <= 0 {
		return nil, apperr.Validation("payment amount must be positive")
	}

	unlock, err := s.orders.lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusCancelled || order.Status == models.OrderStatusReturned {
		return nil, apperr.InvalidState("order in status %s cannot take payments", order.Status)
	}

	if input.Tip != nil {
		if *input.Tip < 0 {
			return nil, apperr.Validation("tip cannot be negative")
		}
		// Replacing the tip shifts the total by the same delta.
		order.Total += *input.Tip - order.Tip
		order.Tip = *input.Tip
	}

	payment := &models.Payment{
		ID:            uuid.New().String(),
		OrderID:       order.ID,
		Status:        models.PaymentStatusPaid,
		Method:        input.Method,
		TransactionID: uuid.New().String(),
		Amount:        input.Amount,
	}

	prev := order.Status
	var next models.OrderStatus
	err = s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.InsertPayment(ctx, payment); err != nil {
			return err
		}
		order.Payments = append(order.Payments, *payment)
		if order.Status == models.OrderStatusPendingPayment && order.TotalPaid() >= order.Total {
			if order.Type == models.OrderTypeTakeaway {
				next = models.OrderStatusNew
			} else {
				next = models.OrderStatusDelivered
			}
			order.Status = next
		}
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		if models.IsTerminal(order.Status) && order.Status != prev {
			return finishOrder(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fullyPaid := order.TotalPaid() >= order.Total
	util.PaymentsRecordedTotal.WithLabelValues(input.Method).Inc()
	s.events.PaymentRecorded(ctx, &models.PaymentRecordedEvent{
		BaseEvent: broker.NewBase(models.EventTypePaymentRecorded, order.RestaurantID),
		OrderID:   order.ID,
		PaymentID: payment.ID,
		Method:    payment.Method,
		Amount:    payment.Amount,
		FullyPaid: fullyPaid,
	})
	if next != "" {
		util.OrderTransitionsTotal.WithLabelValues(string(prev), string(next)).Inc()
		s.events.OrderStatusChanged(ctx, &models.OrderStatusChangedEvent{
			BaseEvent:        broker.NewBase(models.EventTypeOrderStatusChanged, order.RestaurantID),
			OrderID:          order.ID,
			OrderType:        order.Type,
			Previous:         prev,
			Current:          next,
			CustomerID:       order.CustomerID,
			DeliveryPersonID: order.DeliveryPersonID,
			Total:            order.Total,
		})
	}
	s.logger.Info("Payment recorded",
		zap.Int64("order_id", order.ID),
		zap.String("method", payment.Method),
		zap.Float64("amount", payment.Amount),
		zap.Bool("fully_paid", fullyPaid))
	return order, nil
}

// SetTip replaces the tip on an open order and reprices it
func (s *PaymentService) SetTip(ctx context.Context, orderID int64, tip float64) (*models.Order, error) {
	return s.orders.UpdateOrder(ctx, orderID, UpdateOrderInput{Tip: &tip})
}
