package service

import (
	"context"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"go.uber.org/zap"
)

// RestaurantService exposes tenant settings
type RestaurantService struct {
	store  Store
	logger *zap.Logger
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(store Store) *RestaurantService {
	return &RestaurantService{store: store, logger: util.GetLogger()}
}

// GetRestaurant returns a tenant with its settings
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	r, err := s.store.GetRestaurant(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("restaurant %s not found", id)
	}
	return r, nil
}

// ListRestaurants returns all tenants
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.store.ListRestaurants(ctx)
}

// UpdateSettings writes back a restaurant's settings
func (s *RestaurantService) UpdateSettings(ctx context.Context, restaurantID string, settings *models.Settings) (*models.Restaurant, error) {
	if settings.TaxRate < 0 || settings.TaxRate >= 1 {
		return nil, apperr.Validation("tax rate must be in [0, 1)")
	}
	for _, opt := range settings.TipOptions {
		if opt < 0 {
			return nil, apperr.Validation("tip options cannot be negative")
		}
	}
	if _, err := s.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSettings(ctx, restaurantID, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Settings updated", zap.String("restaurant_id", restaurantID))
	return s.GetRestaurant(ctx, restaurantID)
}
