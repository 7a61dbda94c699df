package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

type userRow struct {
	models.User
	LocationLat       *float64   `db:"location_lat"`
	LocationLng       *float64   `db:"location_lng"`
	LocationUpdatedAt *time.Time `db:"location_updated_at"`
}

func (r *userRow) toUser() models.User {
	u := r.User
	if r.LocationLat != nil && r.LocationLng != nil && r.LocationUpdatedAt != nil {
		u.LastLocation = &models.Location{
			Lat:       *r.LocationLat,
			Lng:       *r.LocationLng,
			UpdatedAt: *r.LocationUpdatedAt,
		}
	}
	return u
}

// GetUser retrieves a staff member by ID
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, s.ext, &row, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	u := row.toUser()
	return &u, nil
}

// ListUsers retrieves non-deleted staff for a restaurant
func (s *Store) ListUsers(ctx context.Context, restaurantID string) ([]models.User, error) {
	var rows []userRow
	err := sqlx.SelectContext(ctx, s.ext, &rows,
		"SELECT * FROM users WHERE restaurant_id = $1 AND NOT deleted ORDER BY name", restaurantID)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toUser())
	}
	return users, nil
}

// CreateUser inserts a staff member
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO users (id, restaurant_id, name, email, role, avatar_url, delivery_status, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.RestaurantID, u.Name, u.Email, u.Role, u.AvatarURL, u.DeliveryStatus, u.Deleted)
	return err
}

// UpdateUser writes back a staff member's profile fields
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE users
		SET name = $1, email = $2, role = $3, avatar_url = $4, delivery_status = $5, deleted = $6
		WHERE id = $7`,
		u.Name, u.Email, u.Role, u.AvatarURL, u.DeliveryStatus, u.Deleted, u.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user not found: %s", u.ID)
	}
	return nil
}

// SetDeliveryStatus updates only the availability flag of a delivery person
func (s *Store) SetDeliveryStatus(ctx context.Context, userID string, status models.DeliveryStatus) error {
	res, err := s.ext.ExecContext(ctx,
		"UPDATE users SET delivery_status = $1 WHERE id = $2", status, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// SetUserLocation records a delivery person's last reported position
func (s *Store) SetUserLocation(ctx context.Context, userID string, lat, lng float64) error {
	_, err := s.ext.ExecContext(ctx, `
		UPDATE users
		SET location_lat = $1, location_lng = $2, location_updated_at = NOW()
		WHERE id = $3`, lat, lng, userID)
	return err
}

// CountAdmins counts non-deleted admins of a restaurant
func (s *Store) CountAdmins(ctx context.Context, restaurantID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.ext, &count,
		"SELECT COUNT(*) FROM users WHERE restaurant_id = $1 AND role = $2 AND NOT deleted",
		restaurantID, models.RoleAdmin)
	return count, err
}
