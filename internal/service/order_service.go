package service

import (
	"context"
	"time"

	"resto-pos/internal/apperr"
	"resto-pos/internal/broker"
	"resto-pos/internal/models"
	"resto-pos/internal/redisclient"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService is the order lifecycle engine. All status changes funnel
// through SetStatus or Cancel so the stock, table and delivery side effects
// fire in exactly one place, inside one transaction.
type OrderService struct {
	store       Store
	redis       *redisclient.Client
	events      *broker.EventPublisher
	coupons     *CouponService
	lockTTL     time.Duration
	idemTTL     time.Duration
	portalUser  string
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store Store, redis *redisclient.Client, events *broker.EventPublisher, coupons *CouponService, lockTTL, idemTTL time.Duration) *OrderService {
	return &OrderService{
		store:      store,
		redis:      redis,
		events:     events,
		coupons:    coupons,
		lockTTL:    lockTTL,
		idemTTL:    idemTTL,
		portalUser: "portal",
		logger:     util.GetLogger(),
	}
}

// OrderItemInput is one requested line of a new or edited order
type OrderItemInput struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	Notes      string `json:"notes"`
}

// CreateOrderInput carries everything needed to open an order
type CreateOrderInput struct {
	RestaurantID   string           `json:"restaurant_id" binding:"required"`
	Type           models.OrderType `json:"type" binding:"required"`
	TableID        *int64           `json:"table_id"`
	CustomerID     *string          `json:"customer_id"`
	CreatedByID    string           `json:"created_by_id"`
	WaiterID       *string          `json:"waiter_id"`
	Items          []OrderItemInput `json:"items" binding:"required"`
	CouponCode     string           `json:"coupon_code"`
	Tip            float64          `json:"tip"`
	IdempotencyKey string           `json:"-"`
}

// priceOrder derives tax and total from the restaurant's tax settings.
// Discounts apply to the pre-tax amount. When prices include tax the tax is
// extracted from the discounted subtotal and the total does not grow;
// otherwise it is added on top. Tip is always on top.
func priceOrder(settings *models.Settings, subtotal, discount, tip float64) (tax, total float64) {
	taxable := subtotal - discount
	if taxable < 0 {
		taxable = 0
	}
	if settings.PricesIncludeTax {
		tax = taxable - taxable/(1+settings.TaxRate)
		total = taxable + tip
	} else {
		tax = taxable * settings.TaxRate
		total = taxable + tax + tip
	}
	return tax, total
}

// snapshotItems resolves the requested lines against the menu, freezing name
// and unit price on each order item.
func (s *OrderService) snapshotItems(ctx context.Context, inputs []OrderItemInput) ([]models.OrderItem, float64, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, 0, apperr.Validation("item quantity must be positive")
		}
		ids = append(ids, in.MenuItemID)
	}
	menuItems, err := s.store.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]models.MenuItem, len(menuItems))
	for _, mi := range menuItems {
		byID[mi.ID] = mi
	}

	items := make([]models.OrderItem, 0, len(inputs))
	var subtotal float64
	for _, in := range inputs {
		mi, ok := byID[in.MenuItemID]
		if !ok || mi.Deleted {
			return nil, 0, apperr.Validation("menu item %s does not exist", in.MenuItemID)
		}
		line := models.OrderItem{
			ID:           uuid.New().String(),
			MenuItemID:   mi.ID,
			NameSnapshot: mi.Name,
			UnitPrice:    mi.BasePrice,
			Quantity:     in.Quantity,
			LineTotal:    mi.BasePrice * float64(in.Quantity),
			Notes:        in.Notes,
		}
		subtotal += line.LineTotal
		items = append(items, line)
	}
	return items, subtotal, nil
}

// CreateOrder validates, prices and opens a new order. Honors an optional
// idempotency key: replays return the order created the first time.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if len(input.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	rule, ok := models.RuleFor(input.Type)
	if !ok {
		return nil, apperr.Validation("unknown order type %s", input.Type)
	}

	if input.IdempotencyKey != "" && s.redis != nil {
		if orderID, err := s.redis.GetIdempotencyKey(ctx, input.IdempotencyKey); err == nil && orderID != 0 {
			return s.GetOrder(ctx, orderID)
		}
	}

	restaurant, err := s.store.GetRestaurant(ctx, input.RestaurantID)
	if err != nil {
		return nil, apperr.NotFound("restaurant %s not found", input.RestaurantID)
	}

	var table *models.Table
	if rule.RequiresTable {
		if input.TableID == nil {
			return nil, apperr.Validation("dine-in orders require a table")
		}
		table, err = s.store.GetTable(ctx, *input.TableID)
		if err != nil {
			return nil, apperr.NotFound("table %d not found", *input.TableID)
		}
		if table.Status != models.TableStatusFree {
			return nil, apperr.BusinessRule("table %s is not free", table.Name)
		}
	}

	if rule.RequiresVerifiedCustomer {
		if input.CustomerID == nil {
			return nil, apperr.Validation("delivery orders require a customer")
		}
		customer, err := s.store.GetCustomer(ctx, *input.CustomerID)
		if err != nil {
			return nil, apperr.NotFound("customer %s not found", *input.CustomerID)
		}
		if !customer.IsVerified {
			return nil, apperr.BusinessRule("customer %s is not verified for delivery", customer.Name)
		}
	}

	items, subtotal, err := s.snapshotItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if input.Tip < 0 {
		return nil, apperr.Validation("tip cannot be negative")
	}

	var discount float64
	if input.CouponCode != "" {
		discount, err = s.coupons.Redeem(ctx, input.RestaurantID, input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
	}
	tax, total := priceOrder(&restaurant.Settings, subtotal, discount, input.Tip)

	order := &models.Order{
		RestaurantID: input.RestaurantID,
		CustomerID:   input.CustomerID,
		TableID:      input.TableID,
		CreatedByID:  input.CreatedByID,
		WaiterID:     input.WaiterID,
		Type:         input.Type,
		Status:       rule.InitialStatus,
		Subtotal:     subtotal,
		Discount:     discount,
		Tax:          tax,
		Tip:          input.Tip,
		Total:        total,
		Items:        items,
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		if table != nil {
			return bindTableToOrder(ctx, tx, table, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.IdempotencyKey != "" && s.redis != nil {
		if err := s.redis.SetIdempotencyKey(ctx, input.IdempotencyKey, order.ID, s.idemTTL); err != nil {
			s.logger.Warn("Failed to store idempotency key", zap.Error(err))
		}
	}

	util.OrdersCreatedTotal.WithLabelValues(string(order.Type)).Inc()
	s.events.OrderCreated(ctx, &models.OrderCreatedEvent{
		BaseEvent:  broker.NewBase(models.EventTypeOrderCreated, order.RestaurantID),
		OrderID:    order.ID,
		OrderType:  order.Type,
		Status:     order.Status,
		TableID:    order.TableID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
	})
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("type", string(order.Type)),
		zap.String("status", string(order.Status)),
		zap.Float64("total", order.Total))
	return order, nil
}

// GetOrder returns an order with its items and payments
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("order %d not found", id)
	}
	return order, nil
}

// ListOrders returns a restaurant's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return s.store.ListOrders(ctx, restaurantID)
}

// lock serializes mutations of one order across instances. Without Redis it
// degrades to no locking, which single-instance deployments tolerate.
func (s *OrderService) lock(ctx context.Context, orderID int64) (func(), error) {
	if s.redis == nil {
		return func() {}, nil
	}
	ok, err := s.redis.AcquireOrderLock(ctx, orderID, s.lockTTL)
	if err != nil {
		s.logger.Warn("Order lock unavailable", zap.Int64("order_id", orderID), zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, apperr.BusinessRule("order %d is being modified by another request", orderID)
	}
	return func() {
		if err := s.redis.ReleaseOrderLock(context.Background(), orderID); err != nil {
			s.logger.Warn("Failed to release order lock", zap.Int64("order_id", orderID), zap.Error(err))
		}
	}, nil
}

// SetStatus moves an order along its lifecycle. First entry into PREPARING
// deducts ingredient stock; a terminal status releases the assigned delivery
// person and, for dine-in, sends the table to cleaning.
func (s *OrderService) SetStatus(ctx context.Context, orderID int64, next models.OrderStatus) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.SetStatus")
	defer span.End()

	unlock, err := s.lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	prev := order.Status
	if !models.CanTransition(order.Type, prev, next) {
		util.OrderTransitionsRejected.Inc()
		return nil, apperr.InvalidState("%s order cannot go from %s to %s", order.Type, prev, next)
	}

	var deltas map[string]float64
	err = s.store.WithTx(ctx, func(tx Store) error {
		if models.ShouldDeductStock(prev, next) {
			start := time.Now()
			deltas, err = applyOrderStock(ctx, tx, order, -1)
			if err != nil {
				return err
			}
			util.StockDeductionLatency.Observe(time.Since(start).Seconds())
			util.StockDeductionsTotal.Inc()
		}
		order.Status = next
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}
		if models.IsTerminal(next) {
			return finishOrder(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, order, deltas)
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
	s.logger.Info("Order status changed",
		zap.Int64("order_id", order.ID),
		zap.String("from", string(prev)),
		zap.String("to", string(next)))
	return order, nil
}

// finishOrder runs the side effects shared by every terminal transition:
// the delivery person goes back to AVAILABLE and the dine-in table is sent
// to cleaning. Runs inside the caller's transaction.
func finishOrder(ctx context.Context, tx Store, order *models.Order) error {
	if order.Type == models.OrderTypeDelivery && order.DeliveryPersonID != nil {
		if err := tx.SetDeliveryStatus(ctx, *order.DeliveryPersonID, models.DeliveryStatusAvailable); err != nil {
			return err
		}
	}
	if order.Type == models.OrderTypeDineIn && order.TableID != nil {
		return releaseTable(ctx, tx, *order.TableID, order.ID)
	}
	return nil
}

// Cancel aborts an order from any non-terminal status. Stock already sent to
// the kitchen is restored using the recipes as they stand now.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Cancel")
	defer span.End()

	unlock, err := s.lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	prev := order.Status
	if !models.CanCancel(prev) {
		return nil, apperr.InvalidState("order in status %s cannot be cancelled", prev)
	}

	restored := models.StockDeducted(prev)
	var deltas map[string]float64
	err = s.store.WithTx(ctx, func(tx Store) error {
		if restored {
			deltas, err = applyOrderStock(ctx, tx, order, +1)
			if err != nil {
				return err
			}
			util.StockRestorationsTotal.Inc()
		}
		if order.DeliveryPersonID != nil {
			if err := tx.SetDeliveryStatus(ctx, *order.DeliveryPersonID, models.DeliveryStatusAvailable); err != nil {
				return err
			}
		}
		if order.Type == models.OrderTypeDineIn && order.TableID != nil {
			if err := releaseTable(ctx, tx, *order.TableID, order.ID); err != nil {
				return err
			}
		}
		order.Status = models.OrderStatusCancelled
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.afterStockChange(ctx, order, deltas)
	util.OrdersCancelledTotal.Inc()
	s.events.OrderCancelled(ctx, &models.OrderCancelledEvent{
		BaseEvent:     broker.NewBase(models.EventTypeOrderCancelled, order.RestaurantID),
		OrderID:       order.ID,
		Previous:      prev,
		StockRestored: restored,
	})
	s.logger.Info("Order cancelled",
		zap.Int64("order_id", order.ID),
		zap.String("previous", string(prev)),
		zap.Bool("stock_restored", restored))
	return order, nil
}

// afterStockChange mirrors applied ingredient deltas to Redis and publishes
// the STOCK_ADJUSTED event. Called after the transaction commits.
func (s *OrderService) afterStockChange(ctx context.Context, order *models.Order, deltas map[string]float64) {
	if len(deltas) == 0 {
		return
	}
	if s.redis != nil {
		for ingredientID, delta := range deltas {
			if _, err := s.redis.AdjustStock(ctx, ingredientID, delta); err != nil {
				s.logger.Warn("Failed to mirror stock change",
					zap.String("ingredient_id", ingredientID),
					zap.Error(err))
			}
		}
	}
	s.events.StockAdjusted(ctx, &models.StockAdjustedEvent{
		BaseEvent: broker.NewBase(models.EventTypeStockAdjusted, order.RestaurantID),
		OrderID:   order.ID,
		Deltas:    deltas,
	})
}

// UpdateOrderInput lists the editable fields of an open order. Nil means
// leave unchanged.
type UpdateOrderInput struct {
	Items      *[]OrderItemInput `json:"items"`
	Tip        *float64          `json:"tip"`
	Type       *models.OrderType `json:"type"`
	CustomerID *string           `json:"customer_id"`
}

// UpdateOrder edits an open order. Items can only change before the kitchen
// has the order; tip and customer can change until the order is terminal.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, input UpdateOrderInput) (*models.Order, error) {
	unlock, err := s.lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if models.IsTerminal(order.Status) {
		return nil, apperr.InvalidState("order in status %s cannot be edited", order.Status)
	}

	restaurant, err := s.store.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil && *input.Type != order.Type {
		if _, ok := models.RuleFor(*input.Type); !ok {
			return nil, apperr.Validation("unknown order type %s", *input.Type)
		}
		if order.Type == models.OrderTypeDineIn || *input.Type == models.OrderTypeDineIn {
			return nil, apperr.BusinessRule("orders cannot change to or from dine-in")
		}
		order.Type = *input.Type
	}
	if input.CustomerID != nil {
		order.CustomerID = input.CustomerID
	}
	if order.Type == models.OrderTypeDelivery {
		if order.CustomerID == nil {
			return nil, apperr.Validation("delivery orders require a customer")
		}
		customer, err := s.store.GetCustomer(ctx, *order.CustomerID)
		if err != nil {
			return nil, apperr.NotFound("customer %s not found", *order.CustomerID)
		}
		if !customer.IsVerified {
			return nil, apperr.BusinessRule("customer %s is not verified for delivery", customer.Name)
		}
	}

	itemsChanged := false
	if input.Items != nil {
		if models.StockDeducted(order.Status) {
			return nil, apperr.InvalidState("items cannot change once the kitchen has the order")
		}
		if len(*input.Items) == 0 {
			return nil, apperr.Validation("order must contain at least one item")
		}
		items, subtotal, err := s.snapshotItems(ctx, *input.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
		order.Subtotal = subtotal
		itemsChanged = true
	}
	if input.Tip != nil {
		if *input.Tip < 0 {
			return nil, apperr.Validation("tip cannot be negative")
		}
		order.Tip = *input.Tip
	}
	order.Tax, order.Total = priceOrder(&restaurant.Settings, order.Subtotal, order.Discount, order.Tip)

	err = s.store.WithTx(ctx, func(tx Store) error {
		if itemsChanged {
			for i := range order.Items {
				order.Items[i].OrderID = order.ID
			}
			if err := tx.ReplaceOrderItems(ctx, order.ID, order.Items); err != nil {
				return err
			}
		}
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// PublicOrderInput is an order placed through the customer-facing portal
type PublicOrderInput struct {
	RestaurantID string           `json:"restaurant_id" binding:"required"`
	Type         models.OrderType `json:"type" binding:"required"`
	Items        []OrderItemInput `json:"items" binding:"required"`
	CustomerName string           `json:"customer_name"`
	Contact      string           `json:"contact" binding:"required"`
	CouponCode   string           `json:"coupon_code"`
}

// CreatePublicOrder opens an order on behalf of a portal customer, matching
// or creating the customer profile by phone or email. Dine-in is staff-only.
func (s *OrderService) CreatePublicOrder(ctx context.Context, input PublicOrderInput) (*models.Order, error) {
	if input.Type == models.OrderTypeDineIn {
		return nil, apperr.Validation("dine-in orders cannot be placed through the portal")
	}
	customer, err := s.store.FindCustomerByContact(ctx, input.RestaurantID, input.Contact)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		customer = &models.Customer{
			ID:           uuid.New().String(),
			RestaurantID: input.RestaurantID,
			Name:         input.CustomerName,
			Phone:        input.Contact,
		}
		if err := s.store.CreateCustomer(ctx, customer); err != nil {
			return nil, err
		}
	}
	return s.CreateOrder(ctx, CreateOrderInput{
		RestaurantID: input.RestaurantID,
		Type:         input.Type,
		CustomerID:   &customer.ID,
		CreatedByID:  s.portalUser,
		Items:        input.Items,
		CouponCode:   input.CouponCode,
	})
}
