package store

import (
	"context"
	"database/sql"
	"fmt"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetIngredient retrieves an ingredient by ID
func (s *Store) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := sqlx.GetContext(ctx, s.ext, &ing, "SELECT * FROM ingredients WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ingredient not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &ing, nil
}

// ListIngredients retrieves all ingredients for a restaurant
func (s *Store) ListIngredients(ctx context.Context, restaurantID string) ([]models.Ingredient, error) {
	var ings []models.Ingredient
	err := sqlx.SelectContext(ctx, s.ext, &ings,
		"SELECT * FROM ingredients WHERE restaurant_id = $1 ORDER BY name", restaurantID)
	return ings, err
}

// CreateIngredient inserts a new ingredient
func (s *Store) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO ingredients (id, restaurant_id, name, unit, stock_on_hand, stock_minimum, unit_cost, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ing.ID, ing.RestaurantID, ing.Name, ing.Unit, ing.StockOnHand,
		ing.StockMinimum, ing.UnitCost, ing.Category)
	return err
}

// UpdateIngredient writes back an ingredient row
func (s *Store) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE ingredients
		SET name = $1, unit = $2, stock_on_hand = $3, stock_minimum = $4, unit_cost = $5, category = $6
		WHERE id = $7`,
		ing.Name, ing.Unit, ing.StockOnHand, ing.StockMinimum, ing.UnitCost, ing.Category, ing.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("ingredient not found: %s", ing.ID)
	}
	return nil
}

// AdjustStock applies a relative stock change as one atomic update, so
// concurrent adjustments against the same ingredient never lose writes.
// Negative delta deducts, positive restores; no lower bound is enforced.
func (s *Store) AdjustStock(ctx context.Context, ingredientID string, delta float64) error {
	res, err := s.ext.ExecContext(ctx,
		"UPDATE ingredients SET stock_on_hand = stock_on_hand + $1 WHERE id = $2",
		delta, ingredientID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("ingredient not found: %s", ingredientID)
	}
	return nil
}

// DeleteIngredient removes an ingredient and scrubs it from every recipe
func (s *Store) DeleteIngredient(ctx context.Context, id string) error {
	if _, err := s.ext.ExecContext(ctx,
		"DELETE FROM recipe_lines WHERE ingredient_id = $1", id); err != nil {
		return err
	}
	res, err := s.ext.ExecContext(ctx, "DELETE FROM ingredients WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("ingredient not found: %s", id)
	}
	return nil
}
