package service

import (
	"context"

	"resto-pos/internal/apperr"
	"resto-pos/internal/broker"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"go.uber.org/zap"
)

// DeliveryService assigns delivery people to orders and tracks their
// positions. A person carries at most one order at a time: taking a new one
// requires AVAILABLE status, and terminal orders hand the person back.
type DeliveryService struct {
	store  Store
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(store Store, events *broker.EventPublisher) *DeliveryService {
	return &DeliveryService{store: store, events: events, logger: util.GetLogger()}
}

// ListAvailable returns delivery staff not currently out on an order
func (s *DeliveryService) ListAvailable(ctx context.Context, restaurantID string) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	available := make([]models.User, 0)
	for _, u := range users {
		if u.Role == models.RoleDelivery && !u.Deleted && u.DeliveryStatus == models.DeliveryStatusAvailable {
			available = append(available, u)
		}
	}
	return available, nil
}

// Assign puts a delivery person on an order and sends it EN_ROUTE. An order
// already out with someone else is reassigned: the previous person is
// released first.
func (s *DeliveryService) Assign(ctx context.Context, orderID int64, personID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "DeliveryService.Assign")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if order.Type != models.OrderTypeDelivery {
		return nil, apperr.Validation("order %d is not a delivery order", orderID)
	}
	if models.IsTerminal(order.Status) {
		return nil, apperr.InvalidState("order in status %s cannot be assigned", order.Status)
	}

	person, err := s.store.GetUser(ctx, personID)
	if err != nil {
		return nil, apperr.NotFound("user %s not found", personID)
	}
	if person.Role != models.RoleDelivery || person.Deleted {
		return nil, apperr.Validation("user %s is not delivery staff", person.Name)
	}
	if person.DeliveryStatus != models.DeliveryStatusAvailable {
		return nil, apperr.BusinessRule("%s is already out on a delivery", person.Name)
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if order.DeliveryPersonID != nil && *order.DeliveryPersonID != personID {
			if err := tx.SetDeliveryStatus(ctx, *order.DeliveryPersonID, models.DeliveryStatusAvailable); err != nil {
				return err
			}
		}
		if err := tx.SetDeliveryStatus(ctx, personID, models.DeliveryStatusOnDelivery); err != nil {
			return err
		}
		order.DeliveryPersonID = &personID
		order.Status = models.OrderStatusEnRoute
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	util.DeliveriesAssignedTotal.Inc()
	s.events.DeliveryAssigned(ctx, &models.DeliveryAssignedEvent{
		BaseEvent:        broker.NewBase(models.EventTypeDeliveryAssigned, order.RestaurantID),
		OrderID:          order.ID,
		DeliveryPersonID: personID,
	})
	s.logger.Info("Delivery assigned",
		zap.Int64("order_id", order.ID),
		zap.String("delivery_person_id", personID))
	return order, nil
}

// UpdateLocation records a delivery person's last reported position
func (s *DeliveryService) UpdateLocation(ctx context.Context, personID string, lat, lng float64) error {
	person, err := s.store.GetUser(ctx, personID)
	if err != nil {
		return apperr.NotFound("user %s not found", personID)
	}
	if person.Role != models.RoleDelivery {
		return apperr.Validation("user %s is not delivery staff", person.Name)
	}
	return s.store.SetUserLocation(ctx, personID, lat, lng)
}
