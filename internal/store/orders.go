package store

import (
	"context"
	"database/sql"
	"fmt"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// CreateOrder inserts an order with its item snapshots
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (restaurant_id, customer_id, table_id, created_by_id, waiter_id,
		                    type, status, subtotal, discount, tax, tip, total, delivery_person_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err := sqlx.GetContext(ctx, s.ext, order, query,
		order.RestaurantID, order.CustomerID, order.TableID, order.CreatedByID, order.WaiterID,
		order.Type, order.Status, order.Subtotal, order.Discount, order.Tax, order.Tip,
		order.Total, order.DeliveryPersonID)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := s.insertOrderItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) insertOrderItem(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, menu_item_id, name_snapshot, unit_price, quantity, line_total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.ext.ExecContext(ctx, query,
		item.ID, item.OrderID, item.MenuItemID, item.NameSnapshot,
		item.UnitPrice, item.Quantity, item.LineTotal, item.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

// GetOrderByID retrieves an order with its items and payments
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := sqlx.GetContext(ctx, s.ext, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadOrderChildren(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) loadOrderChildren(ctx context.Context, order *models.Order) error {
	if err := sqlx.SelectContext(ctx, s.ext, &order.Items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", order.ID); err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, s.ext, &order.Payments,
		"SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at", order.ID)
}

// ListOrders retrieves all orders for a restaurant, newest first, with items
// and payments attached. The result is a consistent, diffable snapshot.
func (s *Store) ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	var orders []models.Order
	err := sqlx.SelectContext(ctx, s.ext, &orders,
		"SELECT * FROM orders WHERE restaurant_id = $1 ORDER BY created_at DESC", restaurantID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadOrderChildren(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrder writes back an order's mutable fields
func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	_, err := s.ext.ExecContext(ctx, `
		UPDATE orders
		SET customer_id = $1, table_id = $2, waiter_id = $3, type = $4, status = $5,
		    subtotal = $6, discount = $7, tax = $8, tip = $9, total = $10,
		    delivery_person_id = $11, updated_at = NOW()
		WHERE id = $12`,
		order.CustomerID, order.TableID, order.WaiterID, order.Type, order.Status,
		order.Subtotal, order.Discount, order.Tax, order.Tip, order.Total,
		order.DeliveryPersonID, order.ID)
	return err
}

// ReplaceOrderItems swaps the item snapshots of an order (order edits)
func (s *Store) ReplaceOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	if _, err := s.ext.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = orderID
		if err := s.insertOrderItem(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

// InsertPayment appends a payment record to an order
func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, status, method, transaction_id, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	return sqlx.GetContext(ctx, s.ext, &payment.CreatedAt, query,
		payment.ID, payment.OrderID, payment.Status, payment.Method,
		payment.TransactionID, payment.Amount)
}

// HasActiveOrderWithMenuItem reports whether any active order still references
// the menu item. Active orders block menu-item deletion.
func (s *Store) HasActiveOrderWithMenuItem(ctx context.Context, menuItemID string) (bool, error) {
	statuses := make([]string, len(models.ActiveOrderStatuses))
	for i, st := range models.ActiveOrderStatuses {
		statuses[i] = string(st)
	}

	query, args, err := sqlx.In(`
		SELECT EXISTS(
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE oi.menu_item_id = ? AND o.status IN (?))`, menuItemID, statuses)
	if err != nil {
		return false, err
	}
	query = s.ext.Rebind(query)

	var exists bool
	err = sqlx.GetContext(ctx, s.ext, &exists, query, args...)
	return exists, err
}
