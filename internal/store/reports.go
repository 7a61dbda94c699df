package store

import (
	"context"
	"time"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// CategorySales is revenue grouped by menu category.
type CategorySales struct {
	Category string  `db:"category" json:"category"`
	Total    float64 `db:"total" json:"total"`
}

// HourlySales is revenue and order count grouped by hour of day.
type HourlySales struct {
	Hour   int     `db:"hour" json:"hour"`
	Orders int     `db:"orders" json:"orders"`
	Total  float64 `db:"total" json:"total"`
}

// TypeSales is revenue and order count grouped by fulfillment channel.
type TypeSales struct {
	Type   models.OrderType `db:"type" json:"type"`
	Orders int              `db:"orders" json:"orders"`
	Total  float64          `db:"total" json:"total"`
}

// ProductSales is units and revenue per menu item, by name snapshot.
type ProductSales struct {
	Name     string  `db:"name" json:"name"`
	Units    int     `db:"units" json:"units"`
	Revenue  float64 `db:"revenue" json:"revenue"`
	AvgPrice float64 `db:"avg_price" json:"avg_price"`
}

// StaffSales is orders and revenue per waiter.
type StaffSales struct {
	WaiterID string  `db:"waiter_id" json:"waiter_id"`
	Name     string  `db:"name" json:"name"`
	Orders   int     `db:"orders" json:"orders"`
	Total    float64 `db:"total" json:"total"`
}

// reportFilter matches DELIVERED orders in the window.
const reportFilter = `o.restaurant_id = $1 AND o.status = 'DELIVERED' AND o.created_at >= $2 AND o.created_at < $3`

// SalesTotals returns revenue and order count for the window
func (s *Store) SalesTotals(ctx context.Context, restaurantID string, from, to time.Time) (revenue float64, orders int, err error) {
	var row struct {
		Revenue float64 `db:"revenue"`
		Orders  int     `db:"orders"`
	}
	err = sqlx.GetContext(ctx, s.ext, &row,
		`SELECT COALESCE(SUM(o.total), 0) AS revenue, COUNT(*) AS orders FROM orders o WHERE `+reportFilter,
		restaurantID, from, to)
	return row.Revenue, row.Orders, err
}

// SalesByCategory aggregates item revenue per menu category
func (s *Store) SalesByCategory(ctx context.Context, restaurantID string, from, to time.Time) ([]CategorySales, error) {
	var rows []CategorySales
	err := sqlx.SelectContext(ctx, s.ext, &rows, `
		SELECT c.name AS category, COALESCE(SUM(oi.line_total), 0) AS total
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		JOIN menu_categories c ON c.id = mi.category_id
		WHERE `+reportFilter+`
		GROUP BY c.name
		ORDER BY total DESC`,
		restaurantID, from, to)
	return rows, err
}

// SalesByHour aggregates revenue per hour of day
func (s *Store) SalesByHour(ctx context.Context, restaurantID string, from, to time.Time) ([]HourlySales, error) {
	var rows []HourlySales
	err := sqlx.SelectContext(ctx, s.ext, &rows, `
		SELECT EXTRACT(HOUR FROM o.created_at)::int AS hour, COUNT(*) AS orders, SUM(o.total) AS total
		FROM orders o
		WHERE `+reportFilter+`
		GROUP BY hour
		ORDER BY hour`,
		restaurantID, from, to)
	return rows, err
}

// SalesByType aggregates revenue per fulfillment channel
func (s *Store) SalesByType(ctx context.Context, restaurantID string, from, to time.Time) ([]TypeSales, error) {
	var rows []TypeSales
	err := sqlx.SelectContext(ctx, s.ext, &rows, `
		SELECT o.type, COUNT(*) AS orders, SUM(o.total) AS total
		FROM orders o
		WHERE `+reportFilter+`
		GROUP BY o.type
		ORDER BY total DESC`,
		restaurantID, from, to)
	return rows, err
}

// TopProducts aggregates units and revenue per item name snapshot
func (s *Store) TopProducts(ctx context.Context, restaurantID string, from, to time.Time, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := sqlx.SelectContext(ctx, s.ext, &rows, `
		SELECT oi.name_snapshot AS name,
		       SUM(oi.quantity)::int AS units,
		       SUM(oi.line_total) AS revenue,
		       SUM(oi.line_total) / NULLIF(SUM(oi.quantity), 0) AS avg_price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE `+reportFilter+`
		GROUP BY oi.name_snapshot
		ORDER BY revenue DESC
		LIMIT $4`,
		restaurantID, from, to, limit)
	return rows, err
}

// StaffPerformance aggregates orders and revenue per waiter
func (s *Store) StaffPerformance(ctx context.Context, restaurantID string, from, to time.Time) ([]StaffSales, error) {
	var rows []StaffSales
	err := sqlx.SelectContext(ctx, s.ext, &rows, `
		SELECT o.waiter_id, u.name, COUNT(*) AS orders, SUM(o.total) AS total
		FROM orders o
		JOIN users u ON u.id = o.waiter_id
		WHERE o.waiter_id IS NOT NULL AND `+reportFilter+`
		GROUP BY o.waiter_id, u.name
		ORDER BY total DESC`,
		restaurantID, from, to)
	return rows, err
}
