package store

import (
	"context"
	"database/sql"
	"fmt"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetTable retrieves a table by ID
func (s *Store) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	var t models.Table
	err := sqlx.GetContext(ctx, s.ext, &t, "SELECT * FROM tables WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("table not found: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTables retrieves all tables for a restaurant
func (s *Store) ListTables(ctx context.Context, restaurantID string) ([]models.Table, error) {
	var tables []models.Table
	err := sqlx.SelectContext(ctx, s.ext, &tables,
		"SELECT * FROM tables WHERE restaurant_id = $1 ORDER BY id", restaurantID)
	return tables, err
}

// UpdateTable writes back a table's state and layout fields
func (s *Store) UpdateTable(ctx context.Context, t *models.Table) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE tables
		SET name = $1, status = $2, order_id = $3, waiter_id = $4, x = $5, y = $6, shape = $7
		WHERE id = $8`,
		t.Name, t.Status, t.OrderID, t.WaiterID, t.X, t.Y, t.Shape, t.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("table not found: %d", t.ID)
	}
	return nil
}

// CreateTable inserts a table
func (s *Store) CreateTable(ctx context.Context, t *models.Table) error {
	return sqlx.GetContext(ctx, s.ext, &t.ID, `
		INSERT INTO tables (restaurant_id, name, status, order_id, waiter_id, x, y, shape)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		t.RestaurantID, t.Name, t.Status, t.OrderID, t.WaiterID, t.X, t.Y, t.Shape)
}

// ReplaceTableLayout swaps the floor plan of a restaurant. Occupancy state of
// surviving tables is carried on the incoming rows.
func (s *Store) ReplaceTableLayout(ctx context.Context, restaurantID string, tables []models.Table) error {
	if _, err := s.ext.ExecContext(ctx,
		"DELETE FROM tables WHERE restaurant_id = $1", restaurantID); err != nil {
		return err
	}
	for i := range tables {
		t := &tables[i]
		t.RestaurantID = restaurantID
		if t.ID != 0 {
			if _, err := s.ext.ExecContext(ctx, `
				INSERT INTO tables (id, restaurant_id, name, status, order_id, waiter_id, x, y, shape)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				t.ID, t.RestaurantID, t.Name, t.Status, t.OrderID, t.WaiterID, t.X, t.Y, t.Shape); err != nil {
				return err
			}
			continue
		}
		if err := s.CreateTable(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
