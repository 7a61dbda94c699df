package service

import (
	"context"
	"strings"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerService manages buyer profiles. Verification is the gate for
// delivery orders.
type CustomerService struct {
	store  Store
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store Store) *CustomerService {
	return &CustomerService{store: store, logger: util.GetLogger()}
}

// ListCustomers returns a restaurant's customers
func (s *CustomerService) ListCustomers(ctx context.Context, restaurantID string) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx, restaurantID)
}

// GetCustomer returns a single customer
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("customer %s not found", id)
	}
	return c, nil
}

// FindByContact looks a customer up by phone or email; nil when absent
func (s *CustomerService) FindByContact(ctx context.Context, restaurantID, contact string) (*models.Customer, error) {
	return s.store.FindCustomerByContact(ctx, restaurantID, contact)
}

// CreateCustomer inserts a new, unverified customer
func (s *CustomerService) CreateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, apperr.Validation("customer name is required")
	}
	if c.Phone == "" && c.Email == "" {
		return nil, apperr.Validation("customer needs a phone or an email")
	}
	c.ID = uuid.New().String()
	c.IsVerified = false
	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Customer created", zap.String("customer_id", c.ID))
	return c, nil
}

// UpdateCustomer writes back profile fields. Verification and purchase
// stats are managed by their own paths.
func (s *CustomerService) UpdateCustomer(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	current, err := s.GetCustomer(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.IsVerified = current.IsVerified
	c.LTV = current.LTV
	c.LastPurchaseAt = current.LastPurchaseAt
	c.AvgFrequencyDays = current.AvgFrequencyDays
	if err := s.store.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Verify marks a customer eligible for delivery orders
func (s *CustomerService) Verify(ctx context.Context, id string, verified bool) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.store.SetCustomerVerified(ctx, id, verified); err != nil {
		return err
	}
	s.logger.Info("Customer verification changed",
		zap.String("customer_id", id),
		zap.Bool("verified", verified))
	return nil
}

// DeleteCustomer soft-deletes a customer profile
func (s *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return err
	}
	c.Deleted = true
	return s.store.UpdateCustomer(ctx, c)
}
