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

// UserService manages staff accounts
type UserService struct {
	store  Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store Store) *UserService {
	return &UserService{store: store, logger: util.GetLogger()}
}

var validRoles = map[models.UserRole]bool{
	models.RoleAdmin:    true,
	models.RoleManager:  true,
	models.RoleWaiter:   true,
	models.RoleKitchen:  true,
	models.RoleDelivery: true,
}

// ListUsers returns a restaurant's staff
func (s *UserService) ListUsers(ctx context.Context, restaurantID string) ([]models.User, error) {
	return s.store.ListUsers(ctx, restaurantID)
}

// GetUser returns a single staff member
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return u, nil
}

func validateUser(u *models.User) error {
	if strings.TrimSpace(u.Name) == "" {
		return apperr.Validation("user name is required")
	}
	if !validRoles[u.Role] {
		return apperr.Validation("unknown role %s", u.Role)
	}
	return nil
}

// CreateUser adds a staff member. Delivery staff start AVAILABLE.
func (s *UserService) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	u.ID = uuid.New().String()
	u.Deleted = false
	if u.Role == models.RoleDelivery {
		u.DeliveryStatus = models.DeliveryStatusAvailable
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)))
	return u, nil
}

// UpdateUser writes back a staff member. Demoting the last admin is
// refused so the restaurant is never left unmanageable.
func (s *UserService) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	current, err := s.GetUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if current.Role == models.RoleAdmin && u.Role != models.RoleAdmin {
		if err := s.guardLastAdmin(ctx, current.RestaurantID); err != nil {
			return nil, err
		}
	}
	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser soft-deletes a staff member, refusing to remove the last admin
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == models.RoleAdmin {
		if err := s.guardLastAdmin(ctx, u.RestaurantID); err != nil {
			return err
		}
	}
	u.Deleted = true
	return s.store.UpdateUser(ctx, u)
}

func (s *UserService) guardLastAdmin(ctx context.Context, restaurantID string) error {
	count, err := s.store.CountAdmins(ctx, restaurantID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apperr.BusinessRule("cannot remove the last admin")
	}
	return nil
}
