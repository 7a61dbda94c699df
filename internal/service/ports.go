package service

import (
	"context"
	"time"

	"resto-pos/internal/models"
	"resto-pos/internal/store"
)

// Store is the persistence port the engine runs against. The production
// implementation wraps the sqlx store; tests use an in-memory fake. WithTx
// scopes a group of writes to one unit of work so a transition's side effects
// commit or roll back together.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Restaurants
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	UpdateSettings(ctx context.Context, restaurantID string, cfg *models.Settings) error

	// Orders
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
	ReplaceOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error
	InsertPayment(ctx context.Context, payment *models.Payment) error
	HasActiveOrderWithMenuItem(ctx context.Context, menuItemID string) (bool, error)

	// Menu
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	GetMenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	SetMenuItemDeleted(ctx context.Context, id string, deleted bool) error
	ListCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, cat *models.MenuCategory) error
	UpdateCategory(ctx context.Context, cat *models.MenuCategory) error
	DeleteCategory(ctx context.Context, id string) error
	CountMenuItemsInCategory(ctx context.Context, categoryID string) (int, error)

	// Inventory
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	ListIngredients(ctx context.Context, restaurantID string) ([]models.Ingredient, error)
	CreateIngredient(ctx context.Context, ing *models.Ingredient) error
	UpdateIngredient(ctx context.Context, ing *models.Ingredient) error
	AdjustStock(ctx context.Context, ingredientID string, delta float64) error
	DeleteIngredient(ctx context.Context, id string) error

	// Tables
	GetTable(ctx context.Context, id int64) (*models.Table, error)
	ListTables(ctx context.Context, restaurantID string) ([]models.Table, error)
	UpdateTable(ctx context.Context, t *models.Table) error
	CreateTable(ctx context.Context, t *models.Table) error
	ReplaceTableLayout(ctx context.Context, restaurantID string, tables []models.Table) error

	// Users
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, restaurantID string) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	SetDeliveryStatus(ctx context.Context, userID string, status models.DeliveryStatus) error
	SetUserLocation(ctx context.Context, userID string, lat, lng float64) error
	CountAdmins(ctx context.Context, restaurantID string) (int, error)

	// Customers
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context, restaurantID string) ([]models.Customer, error)
	FindCustomerByContact(ctx context.Context, restaurantID, contact string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	UpdateCustomer(ctx context.Context, c *models.Customer) error
	SetCustomerVerified(ctx context.Context, id string, verified bool) error
	UpdateCustomerStats(ctx context.Context, id string, ltv float64, lastPurchaseAt time.Time, avgFrequencyDays float64) error
	CountDeliveredOrdersForCustomer(ctx context.Context, customerID string) (int, error)

	// Coupons
	ListCoupons(ctx context.Context, restaurantID string) ([]models.Coupon, error)
	GetCouponByCode(ctx context.Context, restaurantID, code string) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, c *models.Coupon) error
	UpdateCoupon(ctx context.Context, c *models.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error

	// Reports
	SalesTotals(ctx context.Context, restaurantID string, from, to time.Time) (float64, int, error)
	SalesByCategory(ctx context.Context, restaurantID string, from, to time.Time) ([]store.CategorySales, error)
	SalesByHour(ctx context.Context, restaurantID string, from, to time.Time) ([]store.HourlySales, error)
	SalesByType(ctx context.Context, restaurantID string, from, to time.Time) ([]store.TypeSales, error)
	TopProducts(ctx context.Context, restaurantID string, from, to time.Time, limit int) ([]store.ProductSales, error)
	StaffPerformance(ctx context.Context, restaurantID string, from, to time.Time) ([]store.StaffSales, error)
}

// sqlStore adapts *store.Store to the Store port; the only impedance is the
// WithTx callback type.
type sqlStore struct {
	*store.Store
}

// NewSQLStore wraps the sqlx-backed store as the engine's persistence port.
func NewSQLStore(s *store.Store) Store {
	return sqlStore{s}
}

func (s sqlStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.Store.WithTx(ctx, func(tx *store.Store) error {
		return fn(sqlStore{tx})
	})
}
