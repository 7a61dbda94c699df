package service

import (
	"context"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"
	"resto-pos/internal/util"

	"go.uber.org/zap"
)

// bindTableToOrder marks a table OCCUPIED by the given order. Runs inside
// the order-creation transaction.
func bindTableToOrder(ctx context.Context, tx Store, table *models.Table, order *models.Order) error {
	table.Status = models.TableStatusOccupied
	table.OrderID = &order.ID
	if order.WaiterID != nil {
		table.WaiterID = order.WaiterID
	}
	return tx.UpdateTable(ctx, table)
}

// releaseTable sends a table to cleaning when its order finishes. A table
// rebound to a different order in the meantime is left alone.
func releaseTable(ctx context.Context, tx Store, tableID, orderID int64) error {
	table, err := tx.GetTable(ctx, tableID)
	if err != nil {
		return nil
	}
	if table.OrderID == nil || *table.OrderID != orderID {
		return nil
	}
	table.Status = models.TableStatusNeedsCleaning
	table.OrderID = nil
	return tx.UpdateTable(ctx, table)
}

// TableService manages the floor plan
type TableService struct {
	store  Store
	logger *zap.Logger
}

// NewTableService creates a new table service
func NewTableService(store Store) *TableService {
	return &TableService{store: store, logger: util.GetLogger()}
}

// ListTables returns the floor plan
func (s *TableService) ListTables(ctx context.Context, restaurantID string) ([]models.Table, error) {
	return s.store.ListTables(ctx, restaurantID)
}

// GetTable returns a single table
func (s *TableService) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	table, err := s.store.GetTable(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("table %d not found", id)
	}
	return table, nil
}

// Clean returns a table to service after bussing. Only a table waiting for
// cleaning can be cleaned.
func (s *TableService) Clean(ctx context.Context, id int64) (*models.Table, error) {
	table, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if table.Status != models.TableStatusNeedsCleaning {
		return nil, apperr.InvalidState("table %s is %s, not awaiting cleaning", table.Name, table.Status)
	}
	table.Status = models.TableStatusFree
	if err := s.store.UpdateTable(ctx, table); err != nil {
		return nil, err
	}
	s.logger.Info("Table cleaned", zap.Int64("table_id", id))
	return table, nil
}

// ReassignWaiter hands a table to another waiter. The open order on the
// table follows in the same transaction so they never disagree.
func (s *TableService) ReassignWaiter(ctx context.Context, tableID int64, waiterID string) (*models.Table, error) {
	table, err := s.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	waiter, err := s.store.GetUser(ctx, waiterID)
	if err != nil {
		return nil, apperr.NotFound("user %s not found", waiterID)
	}
	if waiter.Role != models.RoleWaiter && waiter.Role != models.RoleManager && waiter.Role != models.RoleAdmin {
		return nil, apperr.Validation("user %s cannot wait tables", waiter.Name)
	}

	err = s.store.WithTx(ctx, func(tx Store) error {
		table.WaiterID = &waiterID
		if err := tx.UpdateTable(ctx, table); err != nil {
			return err
		}
		if table.OrderID == nil {
			return nil
		}
		order, err := tx.GetOrderByID(ctx, *table.OrderID)
		if err != nil {
			return err
		}
		order.WaiterID = &waiterID
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// SaveLayout replaces the floor plan. Occupied tables cannot be removed.
func (s *TableService) SaveLayout(ctx context.Context, restaurantID string, tables []models.Table) ([]models.Table, error) {
	current, err := s.store.ListTables(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	keep := make(map[int64]bool, len(tables))
	for _, t := range tables {
		keep[t.ID] = true
	}
	for _, t := range current {
		if t.Status == models.TableStatusOccupied && !keep[t.ID] {
			return nil, apperr.BusinessRule("table %s is occupied and cannot be removed", t.Name)
		}
	}
	if err := s.store.ReplaceTableLayout(ctx, restaurantID, tables); err != nil {
		return nil, err
	}
	return s.store.ListTables(ctx, restaurantID)
}
