package store

import (
	"context"
	"database/sql"
	"fmt"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListCoupons retrieves all coupons for a restaurant
func (s *Store) ListCoupons(ctx context.Context, restaurantID string) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := sqlx.SelectContext(ctx, s.ext, &coupons,
		"SELECT * FROM coupons WHERE restaurant_id = $1 ORDER BY active DESC, code", restaurantID)
	return coupons, err
}

// GetCouponByCode retrieves a coupon by its redemption code
func (s *Store) GetCouponByCode(ctx context.Context, restaurantID, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := sqlx.GetContext(ctx, s.ext, &c,
		"SELECT * FROM coupons WHERE restaurant_id = $1 AND code = $2", restaurantID, code)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("coupon not found: %s", code)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCoupon inserts a coupon
func (s *Store) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO coupons (id, restaurant_id, code, type, value, active, expires_at, min_subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.RestaurantID, c.Code, c.Type, c.Value, c.Active, c.ExpiresAt, c.MinSubtotal)
	return err
}

// UpdateCoupon writes back a coupon row
func (s *Store) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE coupons
		SET code = $1, type = $2, value = $3, active = $4, expires_at = $5, min_subtotal = $6
		WHERE id = $7`,
		c.Code, c.Type, c.Value, c.Active, c.ExpiresAt, c.MinSubtotal, c.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("coupon not found: %s", c.ID)
	}
	return nil
}

// DeleteCoupon removes a coupon
func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, "DELETE FROM coupons WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("coupon not found: %s", id)
	}
	return nil
}
