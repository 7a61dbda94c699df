package store

import (
	"context"
	"database/sql"
	"fmt"

	"resto-pos/internal/models"

	"github.com/jmoiron/sqlx"
)

// GetMenuItem retrieves a menu item with its recipe lines
func (s *Store) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	err := sqlx.GetContext(ctx, s.ext, &item, "SELECT * FROM menu_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("menu item not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadRecipe(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) loadRecipe(ctx context.Context, item *models.MenuItem) error {
	return sqlx.SelectContext(ctx, s.ext, &item.Recipe,
		"SELECT ingredient_id, quantity FROM recipe_lines WHERE menu_item_id = $1", item.ID)
}

// ListMenuItems retrieves all menu items for a restaurant, recipes included
func (s *Store) ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := sqlx.SelectContext(ctx, s.ext, &items,
		"SELECT * FROM menu_items WHERE restaurant_id = $1 ORDER BY name", restaurantID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if err := s.loadRecipe(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// GetMenuItemsByIDs retrieves multiple menu items at once
func (s *Store) GetMenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return []models.MenuItem{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM menu_items WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.ext.Rebind(query)

	var items []models.MenuItem
	if err := sqlx.SelectContext(ctx, s.ext, &items, query, args...); err != nil {
		return nil, err
	}
	for i := range items {
		if err := s.loadRecipe(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// CreateMenuItem inserts a menu item with its recipe
func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	_, err := s.ext.ExecContext(ctx, `
		INSERT INTO menu_items (id, restaurant_id, category_id, name, description, base_price,
		                        image_url, available, prep_time_minutes, sells_when_out_of_stock, deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		item.ID, item.RestaurantID, item.CategoryID, item.Name, item.Description, item.BasePrice,
		item.ImageURL, item.Available, item.PrepTimeMinutes, item.SellsWhenOutOfStock, item.Deleted)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return s.replaceRecipe(ctx, item.ID, item.Recipe)
}

// UpdateMenuItem writes back a menu item and its recipe
func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res, err := s.ext.ExecContext(ctx, `
		UPDATE menu_items
		SET category_id = $1, name = $2, description = $3, base_price = $4, image_url = $5,
		    available = $6, prep_time_minutes = $7, sells_when_out_of_stock = $8, deleted = $9
		WHERE id = $10`,
		item.CategoryID, item.Name, item.Description, item.BasePrice, item.ImageURL,
		item.Available, item.PrepTimeMinutes, item.SellsWhenOutOfStock, item.Deleted, item.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("menu item not found: %s", item.ID)
	}
	return s.replaceRecipe(ctx, item.ID, item.Recipe)
}

func (s *Store) replaceRecipe(ctx context.Context, menuItemID string, recipe []models.RecipeLine) error {
	if _, err := s.ext.ExecContext(ctx,
		"DELETE FROM recipe_lines WHERE menu_item_id = $1", menuItemID); err != nil {
		return err
	}
	for _, line := range recipe {
		if _, err := s.ext.ExecContext(ctx,
			"INSERT INTO recipe_lines (menu_item_id, ingredient_id, quantity) VALUES ($1, $2, $3)",
			menuItemID, line.IngredientID, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert recipe line: %w", err)
		}
	}
	return nil
}

// SetMenuItemDeleted flips the soft-delete flag
func (s *Store) SetMenuItemDeleted(ctx context.Context, id string, deleted bool) error {
	res, err := s.ext.ExecContext(ctx,
		"UPDATE menu_items SET deleted = $1 WHERE id = $2", deleted, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("menu item not found: %s", id)
	}
	return nil
}

// Categories

// ListCategories retrieves a restaurant's categories in display order
func (s *Store) ListCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error) {
	var cats []models.MenuCategory
	err := sqlx.SelectContext(ctx, s.ext, &cats,
		"SELECT * FROM menu_categories WHERE restaurant_id = $1 ORDER BY sort_order", restaurantID)
	return cats, err
}

// CreateCategory inserts a category
func (s *Store) CreateCategory(ctx context.Context, cat *models.MenuCategory) error {
	_, err := s.ext.ExecContext(ctx,
		"INSERT INTO menu_categories (id, restaurant_id, name, sort_order) VALUES ($1, $2, $3, $4)",
		cat.ID, cat.RestaurantID, cat.Name, cat.SortOrder)
	return err
}

// UpdateCategory writes back a category row
func (s *Store) UpdateCategory(ctx context.Context, cat *models.MenuCategory) error {
	res, err := s.ext.ExecContext(ctx,
		"UPDATE menu_categories SET name = $1, sort_order = $2 WHERE id = $3",
		cat.Name, cat.SortOrder, cat.ID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("category not found: %s", cat.ID)
	}
	return nil
}

// DeleteCategory removes a category row
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.ext.ExecContext(ctx, "DELETE FROM menu_categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("category not found: %s", id)
	}
	return nil
}

// CountMenuItemsInCategory counts non-deleted items referencing a category
func (s *Store) CountMenuItemsInCategory(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, s.ext, &count,
		"SELECT COUNT(*) FROM menu_items WHERE category_id = $1 AND NOT deleted", categoryID)
	return count, err
}
