package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store is the Postgres-backed persistence layer. All methods run against
// s.ext, which is either the root connection pool or an open transaction.
type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, ext: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn with a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise, so a transition's side
// effects land as one unit of work.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, ok := s.ext.(*sqlx.Tx); ok {
		// Already inside a transaction.
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Store{db: s.db, ext: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// GetRestaurant retrieves a restaurant with its settings
func (s *Store) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	var row struct {
		models.Restaurant
		TipOptions pq.Float64Array `db:"tip_options"`
	}
	err := sqlx.GetContext(ctx, s.ext, &row, `
		SELECT id, created_at, name, logo_url, address, phone, opening_hours,
		       tax_rate, prices_include_tax, tip_options
		FROM restaurants WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("restaurant not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	row.Restaurant.TipOptions = []float64(row.TipOptions)
	return &row.Restaurant, nil
}

// ListRestaurants retrieves all restaurants
func (s *Store) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var rows []struct {
		models.Restaurant
		TipOptions pq.Float64Array `db:"tip_options"`
	}
	err := sqlx.SelectContext(ctx, s.ext, &rows, `
		SELECT id, created_at, name, logo_url, address, phone, opening_hours,
		       tax_rate, prices_include_tax, tip_options
		FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	out := make([]models.Restaurant, 0, len(rows))
	for _, r := range rows {
		r.Restaurant.TipOptions = []float64(r.TipOptions)
		out = append(out, r.Restaurant)
	}
	return out, nil
}

// UpdateSettings replaces a restaurant's settings
func (s *Store) UpdateSettings(ctx context.Context, restaurantID string, cfg *models.Settings) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE restaurants
		SET name = $1, logo_url = $2, address = $3, phone = $4, opening_hours = $5,
		    tax_rate = $6, prices_include_tax = $7, tip_options = $8
		WHERE id = $9`,
		cfg.Name, cfg.LogoURL, cfg.Address, cfg.Phone, cfg.OpeningHours,
		cfg.TaxRate, cfg.PricesIncludeTax, pq.Float64Array(cfg.TipOptions), restaurantID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("restaurant not found: %s", restaurantID)
	}
	return nil
}
