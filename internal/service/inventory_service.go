package service

import (
	"context"
	"strings"

	"resto-pos/internal/apperr"
	"resto-pos/internal/broker"
	"resto-pos/internal/models"
	"resto-pos/internal/redisclient"
	"resto-pos/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// applyOrderStock adjusts ingredient stock for every item on the order,
// signed: -1 deducts (order goes to the kitchen), +1 restores (order is
// cancelled after deduction). Recipes are read from the menu as it stands
// now, not from an order-time snapshot, so a recipe edited mid-order is
// restored with its current composition. Quantities are aggregated per
// ingredient first so each ingredient gets a single relative update.
// Items whose menu entry is gone, or whose recipe is empty, contribute
// nothing. Returns the applied deltas keyed by ingredient id.
func applyOrderStock(ctx context.Context, st Store, order *models.Order, sign float64) (map[string]float64, error) {
	ids := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.MenuItemID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := st.GetMenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.MenuItem, len(items))
	for _, mi := range items {
		byID[mi.ID] = mi
	}

	deltas := make(map[string]float64)
	for _, it := range order.Items {
		mi, ok := byID[it.MenuItemID]
		if !ok {
			continue
		}
		for _, line := range mi.Recipe {
			deltas[line.IngredientID] += sign * line.Quantity * float64(it.Quantity)
		}
	}

	for ingredientID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if err := st.AdjustStock(ctx, ingredientID, delta); err != nil {
			return nil, err
		}
	}
	return deltas, nil
}

// InventoryService manages ingredients and the stock ledger
type InventoryService struct {
	store  Store
	redis  *redisclient.Client
	events *broker.EventPublisher
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store Store, redis *redisclient.Client, events *broker.EventPublisher) *InventoryService {
	return &InventoryService{
		store:  store,
		redis:  redis,
		events: events,
		logger: util.GetLogger(),
	}
}

// ListIngredients returns all ingredients for a restaurant
func (s *InventoryService) ListIngredients(ctx context.Context, restaurantID string) ([]models.Ingredient, error) {
	return s.store.ListIngredients(ctx, restaurantID)
}

// GetIngredient returns a single ingredient
func (s *InventoryService) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("ingredient %s not found", id)
	}
	return ing, nil
}

func validateIngredient(ing *models.Ingredient) error {
	if strings.TrimSpace(ing.Name) == "" {
		return apperr.Validation("ingredient name is required")
	}
	if ing.UnitCost < 0 {
		return apperr.Validation("ingredient unit cost cannot be negative")
	}
	return nil
}

// CreateIngredient inserts a new ingredient and seeds its Redis mirror
func (s *InventoryService) CreateIngredient(ctx context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	ing.ID = uuid.New().String()
	if err := s.store.CreateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	if s.redis != nil {
		if err := s.redis.InitStock(ctx, ing.ID, ing.StockOnHand); err != nil {
			s.logger.Warn("Failed to seed stock mirror", zap.String("ingredient_id", ing.ID), zap.Error(err))
		}
	}
	s.logger.Info("Ingredient created",
		zap.String("ingredient_id", ing.ID),
		zap.String("name", ing.Name))
	return ing, nil
}

// UpdateIngredient writes back name, unit and unit cost. Stock is not
// editable here; use AdjustStock so every change goes through the ledger.
func (s *InventoryService) UpdateIngredient(ctx context.Context, ing *models.Ingredient) (*models.Ingredient, error) {
	if err := validateIngredient(ing); err != nil {
		return nil, err
	}
	current, err := s.store.GetIngredient(ctx, ing.ID)
	if err != nil {
		return nil, apperr.NotFound("ingredient %s not found", ing.ID)
	}
	ing.StockOnHand = current.StockOnHand
	if err := s.store.UpdateIngredient(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// AdjustStock applies a relative delta to one ingredient, mirrors it to
// Redis and emits a STOCK_ADJUSTED event. Used for deliveries, waste and
// manual corrections.
func (s *InventoryService) AdjustStock(ctx context.Context, id string, delta float64, reason string) (*models.Ingredient, error) {
	ing, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("ingredient %s not found", id)
	}
	if err := s.store.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	s.mirrorStock(ctx, id, delta)
	s.events.StockAdjusted(ctx, &models.StockAdjustedEvent{
		BaseEvent: broker.NewBase(models.EventTypeStockAdjusted, ing.RestaurantID),
		Deltas:    map[string]float64{id: delta},
	})
	util.StockAdjustmentsTotal.WithLabelValues(reason).Inc()
	updated, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.StockOnHand < 0 {
		s.logger.Warn("Ingredient stock is negative",
			zap.String("ingredient_id", id),
			zap.Float64("stock_on_hand", updated.StockOnHand))
	}
	return updated, nil
}

// DeleteIngredient removes an ingredient and its recipe references
func (s *InventoryService) DeleteIngredient(ctx context.Context, id string) error {
	if _, err := s.store.GetIngredient(ctx, id); err != nil {
		return apperr.NotFound("ingredient %s not found", id)
	}
	if err := s.store.DeleteIngredient(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Ingredient deleted", zap.String("ingredient_id", id))
	return nil
}

// SyncStockToRedis reseeds the Redis stock mirror from the database,
// typically at startup.
func (s *InventoryService) SyncStockToRedis(ctx context.Context, restaurantID string) error {
	if s.redis == nil {
		return nil
	}
	ings, err := s.store.ListIngredients(ctx, restaurantID)
	if err != nil {
		return err
	}
	for _, ing := range ings {
		if err := s.redis.InitStock(ctx, ing.ID, ing.StockOnHand); err != nil {
			return err
		}
	}
	s.logger.Info("Stock mirror synced",
		zap.String("restaurant_id", restaurantID),
		zap.Int("ingredients", len(ings)))
	return nil
}

func (s *InventoryService) mirrorStock(ctx context.Context, ingredientID string, delta float64) {
	if s.redis == nil {
		return
	}
	if _, err := s.redis.AdjustStock(ctx, ingredientID, delta); err != nil {
		s.logger.Warn("Failed to mirror stock adjustment",
			zap.String("ingredient_id", ingredientID),
			zap.Error(err))
	}
}
