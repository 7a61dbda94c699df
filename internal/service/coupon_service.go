package service

import (
	"context"
	"strings"
	"time"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CouponService manages discount codes and their redemption
type CouponService struct {
	store  Store
	logger *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(store Store) *CouponService {
	return &CouponService{store: store, logger: util.GetLogger()}
}

// ListCoupons returns a restaurant's coupons
func (s *CouponService) ListCoupons(ctx context.Context, restaurantID string) ([]models.Coupon, error) {
	return s.store.ListCoupons(ctx, restaurantID)
}

func validateCoupon(c *models.Coupon) error {
	if strings.TrimSpace(c.Code) == "" {
		return apperr.Validation("coupon code is required")
	}
	switch c.Type {
	case models.CouponTypePercent:
		if c.Value <= 0 || c.Value > 100 {
			return apperr.Validation("percent coupon value must be between 0 and 100")
		}
	case models.CouponTypeFixed:
		if c.Value <= 0 {
			return apperr.Validation("fixed coupon value must be positive")
		}
	default:
		return apperr.Validation("unknown coupon type %s", c.Type)
	}
	return nil
}

// CreateCoupon inserts a new coupon. Codes are stored uppercase.
func (s *CouponService) CreateCoupon(ctx context.Context, c *models.Coupon) (*models.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if err := validateCoupon(c); err != nil {
		return nil, err
	}
	if existing, err := s.store.GetCouponByCode(ctx, c.RestaurantID, c.Code); err == nil && existing != nil {
		return nil, apperr.BusinessRule("coupon code %s already exists", c.Code)
	}
	c.ID = uuid.New().String()
	if err := s.store.CreateCoupon(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Coupon created", zap.String("code", c.Code))
	return c, nil
}

// UpdateCoupon writes back a coupon
func (s *CouponService) UpdateCoupon(ctx context.Context, c *models.Coupon) (*models.Coupon, error) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if err := validateCoupon(c); err != nil {
		return nil, err
	}
	if err := s.store.UpdateCoupon(ctx, c); err != nil {
		return nil, apperr.NotFound("coupon %s not found", c.ID)
	}
	return c, nil
}

// DeleteCoupon removes a coupon
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return s.store.DeleteCoupon(ctx, id)
}

// Redeem validates a code against a subtotal and returns the discount
// amount. The discount never exceeds the subtotal.
func (s *CouponService) Redeem(ctx context.Context, restaurantID, code string, subtotal float64) (float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	coupon, err := s.store.GetCouponByCode(ctx, restaurantID, code)
	if err != nil || coupon == nil {
		return 0, apperr.NotFound("coupon %s not found", code)
	}
	if !coupon.Active {
		return 0, apperr.BusinessRule("coupon %s is not active", code)
	}
	if !coupon.ExpiresAt.IsZero() && coupon.ExpiresAt.Before(time.Now()) {
		return 0, apperr.BusinessRule("coupon %s has expired", code)
	}
	if coupon.MinSubtotal != nil && subtotal < *coupon.MinSubtotal {
		return 0, apperr.BusinessRule("coupon %s requires a subtotal of at least %.2f", code, *coupon.MinSubtotal)
	}

	var discount float64
	switch coupon.Type {
	case models.CouponTypePercent:
		discount = subtotal * coupon.Value / 100
	case models.CouponTypeFixed:
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	util.CouponsRedeemedTotal.Inc()
	return discount, nil
}
