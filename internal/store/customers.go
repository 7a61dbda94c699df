package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetCustomer retrieves a customer by ID
func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	err := sqlx.GetContext(ctx, s.ext, &c, "SELECT * FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers retrieves non-deleted customers for a restaurant
func (s *Store) ListCustomers(ctx context.Context, restaurantID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := sqlx.SelectContext(ctx, s.ext, &customers,
		"SELECT * FROM customers WHERE restaurant_id = $1 AND NOT deleted ORDER BY name", restaurantID)
	return customers, err
}

// FindCustomerByContact looks a customer up by phone or email
func (s *Store) FindCustomerByContact(ctx context.Context, restaurantID, contact string) (*models.Customer, error) {
	var c models.Customer
	err := sqlx.GetContext(ctx, s.ext, &c, `
		SELECT * FROM customers
		WHERE restaurant_id = $1 AND (phone = $2 OR email = $2) AND NOT deleted`,
		restaurantID, contact)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer inserts a customer
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO customers (id, restaurant_id, name, phone, email, ltv, last_purchase_at,
		                       avg_frequency_days, is_verified, street, city, zip, lat, lng, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		c.ID, c.RestaurantID, c.Name, c.Phone, c.Email, c.LTV, c.LastPurchaseAt,
		c.AvgFrequencyDays, c.IsVerified, c.Street, c.City, c.Zip, c.Lat, c.Lng, c.Deleted)
	return err
}

// UpdateCustomer writes back a customer row
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, ltv = $4, last_purchase_at = $5,
		    avg_frequency_days = $6, is_verified = $7, street = $8, city = $9,
		    zip = $10, lat = $11, lng = $12, deleted = $13
		WHERE id = $14`,
		c.Name, c.Phone, c.Email, c.LTV, c.LastPurchaseAt, c.AvgFrequencyDays,
		c.IsVerified, c.Street, c.City, c.Zip, c.Lat, c.Lng, c.Deleted, c.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("customer not found: %s", c.ID)
	}
	return nil
}

// SetCustomerVerified flips the delivery-eligibility flag
func (s *Store) SetCustomerVerified(ctx context.Context, id string, verified bool) error {
	res, err := s.ext.ExecContext(ctx,
		"UPDATE customers SET is_verified = $1 WHERE id = $2", verified, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("customer not found: %s", id)
	}
	return nil
}

// UpdateCustomerStats writes the purchase-history aggregates maintained by the
// customer stats worker
func (s *Store) UpdateCustomerStats(ctx context.Context, id string, ltv float64, lastPurchaseAt time.Time, avgFrequencyDays float64) error {
	_, err := s.ext.ExecContext(ctx, `
		UPDATE customers
		SET ltv = $1, last_purchase_at = $2, avg_frequency_days = $3
		WHERE id = $4`, ltv, lastPurchaseAt, avgFrequencyDays, id)
	return err
}

// CountDeliveredOrdersForCustomer counts DELIVERED orders for a customer
func (s *Store) CountDeliveredOrdersForCustomer(ctx context.Context, customerID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.ext, &count,
		"SELECT COUNT(*) FROM orders WHERE customer_id = $1 AND status = $2",
		customerID, models.OrderStatusDelivered)
	return count, err
}
