package service

import (
	"context"
	"math"
	"strings"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolveMenuItem fills the derived fields of a menu item from its recipe and
// the given ingredient set:
//   - Cost is the summed ingredient cost of one unit.
//   - StockOnHand is the makeable count: the minimum over recipe lines of
//     floor(ingredient stock / line quantity). nil means unlimited (empty
//     recipe); a missing ingredient makes the item unmakeable.
//   - Available is forced false when the item cannot be made and does not
//     sell when out of stock; the persisted flag is left alone.
func ResolveMenuItem(item *models.MenuItem, ingredients map[string]models.Ingredient) {
	var cost float64
	makeable := math.Inf(1)

	for _, line := range item.Recipe {
		ing, ok := ingredients[line.IngredientID]
		if !ok {
			makeable = 0
			continue
		}
		cost += ing.UnitCost * line.Quantity
		if line.Quantity > 0 {
			possible := math.Floor(ing.StockOnHand / line.Quantity)
			if possible < makeable {
				makeable = possible
			}
		}
	}

	item.Cost = cost
	if math.IsInf(makeable, 1) {
		item.StockOnHand = nil
	} else {
		stock := makeable
		item.StockOnHand = &stock
		if stock <= 0 && !item.SellsWhenOutOfStock {
			item.Available = false
		}
	}
}

// MenuService manages menu items and categories, applying the derived
// cost/stock computation on every read.
type MenuService struct {
	store  Store
	logger *zap.Logger
}

// NewMenuService creates a new menu service
func NewMenuService(store Store) *MenuService {
	return &MenuService{
		store:  store,
		logger: util.GetLogger(),
	}
}

func (s *MenuService) ingredientMap(ctx context.Context, restaurantID string) (map[string]models.Ingredient, error) {
	ings, err := s.store.ListIngredients(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]models.Ingredient, len(ings))
	for _, ing := range ings {
		m[ing.ID] = ing
	}
	return m, nil
}

// ListMenuItems returns all items with derived fields resolved against
// current ingredient stock. Soft-deleted items are included so back-office
// screens can offer restore; callers filter as needed.
func (s *MenuService) ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	items, err := s.store.ListMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	ings, err := s.ingredientMap(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		ResolveMenuItem(&items[i], ings)
	}
	return items, nil
}

// GetMenuItem returns a single item with derived fields resolved
func (s *MenuService) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.store.GetMenuItem(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("menu item %s not found", id)
	}
	ings, err := s.ingredientMap(ctx, item.RestaurantID)
	if err != nil {
		return nil, err
	}
	ResolveMenuItem(item, ings)
	return item, nil
}

func validateMenuItem(item *models.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return apperr.Validation("menu item name is required")
	}
	if item.BasePrice < 0 {
		return apperr.Validation("menu item price cannot be negative")
	}
	for _, line := range item.Recipe {
		if line.Quantity < 0 {
			return apperr.Validation("recipe quantity cannot be negative")
		}
	}
	return nil
}

// CreateMenuItem inserts a new item
func (s *MenuService) CreateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	item.ID = uuid.New().String()
	item.Deleted = false
	if err := s.store.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Menu item created",
		zap.String("menu_item_id", item.ID),
		zap.String("name", item.Name))
	return s.GetMenuItem(ctx, item.ID)
}

// UpdateMenuItem writes back an item and its recipe
func (s *MenuService) UpdateMenuItem(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	if _, err := s.store.GetMenuItem(ctx, item.ID); err != nil {
		return nil, apperr.NotFound("menu item %s not found", item.ID)
	}
	if err := s.store.UpdateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return s.GetMenuItem(ctx, item.ID)
}

// DeleteMenuItem soft-deletes an item. Items referenced by active orders
// cannot be deleted: their snapshots still resolve, but the kitchen would
// lose the recipe behind a dish it has yet to cook.
func (s *MenuService) DeleteMenuItem(ctx context.Context, id string) error {
	if _, err := s.store.GetMenuItem(ctx, id); err != nil {
		return apperr.NotFound("menu item %s not found", id)
	}
	inUse, err := s.store.HasActiveOrderWithMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperr.BusinessRule("menu item is part of an active order and cannot be deleted")
	}
	if err := s.store.SetMenuItemDeleted(ctx, id, true); err != nil {
		return err
	}
	s.logger.Info("Menu item deleted", zap.String("menu_item_id", id))
	return nil
}

// RestoreMenuItem undoes a soft delete
func (s *MenuService) RestoreMenuItem(ctx context.Context, id string) error {
	if _, err := s.store.GetMenuItem(ctx, id); err != nil {
		return apperr.NotFound("menu item %s not found", id)
	}
	return s.store.SetMenuItemDeleted(ctx, id, false)
}

// Categories

// ListCategories returns a restaurant's categories in display order
func (s *MenuService) ListCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error) {
	return s.store.ListCategories(ctx, restaurantID)
}

// CreateCategory appends a category at the end of the display order
func (s *MenuService) CreateCategory(ctx context.Context, restaurantID, name string) (*models.MenuCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("category name is required")
	}
	existing, err := s.store.ListCategories(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	cat := &models.MenuCategory{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		SortOrder:    len(existing) + 1,
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ReorderCategories rewrites sort order to match the given sequence
func (s *MenuService) ReorderCategories(ctx context.Context, cats []models.MenuCategory) ([]models.MenuCategory, error) {
	for i := range cats {
		cats[i].SortOrder = i + 1
		if err := s.store.UpdateCategory(ctx, &cats[i]); err != nil {
			return nil, err
		}
	}
	return cats, nil
}

// DeleteCategory removes a category unless items still reference it
func (s *MenuService) DeleteCategory(ctx context.Context, id string) error {
	count, err := s.store.CountMenuItemsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.BusinessRule("category has %d menu items and cannot be deleted", count)
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return apperr.NotFound("category %s not found", id)
	}
	return nil
}
