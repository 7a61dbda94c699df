package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resto-pos/internal/models"
	"resto-pos/internal/store"
)

// memStore is an in-memory Store used by the service tests. WithTx just runs
// the callback under the store mutex; the engine's transactional grouping is
// exercised against Postgres in the store integration tests.
type memStore struct {
	mu          sync.Mutex
	restaurants map[string]*models.Restaurant
	users       map[string]*models.User
	customers   map[string]*models.Customer
	ingredients map[string]*models.Ingredient
	categories  map[string]*models.MenuCategory
	menuItems   map[string]*models.MenuItem
	tables      map[int64]*models.Table
	orders      map[int64]*models.Order
	coupons     map[string]*models.Coupon
	nextOrderID int64
	nextTableID int64
}

func newMemStore() *memStore {
	return &memStore{
		restaurants: make(map[string]*models.Restaurant),
		users:       make(map[string]*models.User),
		customers:   make(map[string]*models.Customer),
		ingredients: make(map[string]*models.Ingredient),
		categories:  make(map[string]*models.MenuCategory),
		menuItems:   make(map[string]*models.MenuItem),
		tables:      make(map[int64]*models.Table),
		orders:      make(map[int64]*models.Order),
		coupons:     make(map[string]*models.Coupon),
	}
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func copyOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = append([]models.OrderItem(nil), o.Items...)
	c.Payments = append([]models.Payment(nil), o.Payments...)
	return &c
}

func copyMenuItem(mi *models.MenuItem) *models.MenuItem {
	c := *mi
	c.Recipe = append([]models.RecipeLine(nil), mi.Recipe...)
	return &c
}

// Restaurants

func (m *memStore) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restaurants[id]
	if !ok {
		return nil, fmt.Errorf("restaurant not found: %s", id)
	}
	c := *r
	return &c, nil
}

func (m *memStore) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Restaurant, 0, len(m.restaurants))
	for _, r := range m.restaurants {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memStore) UpdateSettings(ctx context.Context, restaurantID string, cfg *models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.restaurants[restaurantID]
	if !ok {
		return fmt.Errorf("restaurant not found: %s", restaurantID)
	}
	r.Settings = *cfg
	return nil
}

// Orders

func (m *memStore) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextOrderID++
	order.ID = m.nextOrderID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *memStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order not found: %d", id)
	}
	return copyOrder(o), nil
}

func (m *memStore) ListOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID {
			out = append(out, *copyOrder(o))
		}
	}
	return out, nil
}

func (m *memStore) UpdateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return fmt.Errorf("order not found: %d", order.ID)
	}
	order.UpdatedAt = time.Now()
	m.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *memStore) ReplaceOrderItems(ctx context.Context, orderID int64, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return fmt.Errorf("order not found: %d", orderID)
	}
	o.Items = append([]models.OrderItem(nil), items...)
	return nil
}

func (m *memStore) InsertPayment(ctx context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[payment.OrderID]
	if !ok {
		return fmt.Errorf("order not found: %d", payment.OrderID)
	}
	payment.CreatedAt = time.Now()
	o.Payments = append(o.Payments, *payment)
	return nil
}

func (m *memStore) HasActiveOrderWithMenuItem(ctx context.Context, menuItemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := make(map[models.OrderStatus]bool)
	for _, s := range models.ActiveOrderStatuses {
		active[s] = true
	}
	for _, o := range m.orders {
		if !active[o.Status] {
			continue
		}
		for _, it := range o.Items {
			if it.MenuItemID == menuItemID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Menu

func (m *memStore) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mi, ok := m.menuItems[id]
	if !ok {
		return nil, fmt.Errorf("menu item not found: %s", id)
	}
	return copyMenuItem(mi), nil
}

func (m *memStore) ListMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MenuItem, 0)
	for _, mi := range m.menuItems {
		if mi.RestaurantID == restaurantID {
			out = append(out, *copyMenuItem(mi))
		}
	}
	return out, nil
}

func (m *memStore) GetMenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MenuItem, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if mi, ok := m.menuItems[id]; ok {
			out = append(out, *copyMenuItem(mi))
		}
	}
	return out, nil
}

func (m *memStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menuItems[item.ID] = copyMenuItem(item)
	return nil
}

func (m *memStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menuItems[item.ID]; !ok {
		return fmt.Errorf("menu item not found: %s", item.ID)
	}
	m.menuItems[item.ID] = copyMenuItem(item)
	return nil
}

func (m *memStore) SetMenuItemDeleted(ctx context.Context, id string, deleted bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mi, ok := m.menuItems[id]
	if !ok {
		return fmt.Errorf("menu item not found: %s", id)
	}
	mi.Deleted = deleted
	return nil
}

func (m *memStore) ListCategories(ctx context.Context, restaurantID string) ([]models.MenuCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MenuCategory, 0)
	for _, c := range m.categories {
		if c.RestaurantID == restaurantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) CreateCategory(ctx context.Context, cat *models.MenuCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cat
	m.categories[cat.ID] = &c
	return nil
}

func (m *memStore) UpdateCategory(ctx context.Context, cat *models.MenuCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[cat.ID]; !ok {
		return fmt.Errorf("category not found: %s", cat.ID)
	}
	c := *cat
	m.categories[cat.ID] = &c
	return nil
}

func (m *memStore) DeleteCategory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return fmt.Errorf("category not found: %s", id)
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) CountMenuItemsInCategory(ctx context.Context, categoryID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, mi := range m.menuItems {
		if mi.CategoryID == categoryID && !mi.Deleted {
			count++
		}
	}
	return count, nil
}

// Inventory

func (m *memStore) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ing, ok := m.ingredients[id]
	if !ok {
		return nil, fmt.Errorf("ingredient not found: %s", id)
	}
	c := *ing
	return &c, nil
}

func (m *memStore) ListIngredients(ctx context.Context, restaurantID string) ([]models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Ingredient, 0)
	for _, ing := range m.ingredients {
		if ing.RestaurantID == restaurantID {
			out = append(out, *ing)
		}
	}
	return out, nil
}

func (m *memStore) CreateIngredient(ctx context.Context, ing *models.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *ing
	m.ingredients[ing.ID] = &c
	return nil
}

func (m *memStore) UpdateIngredient(ctx context.Context, ing *models.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ingredients[ing.ID]; !ok {
		return fmt.Errorf("ingredient not found: %s", ing.ID)
	}
	c := *ing
	m.ingredients[ing.ID] = &c
	return nil
}

func (m *memStore) AdjustStock(ctx context.Context, ingredientID string, delta float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ing, ok := m.ingredients[ingredientID]
	if !ok {
		return fmt.Errorf("ingredient not found: %s", ingredientID)
	}
	ing.StockOnHand += delta
	return nil
}

func (m *memStore) DeleteIngredient(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ingredients[id]; !ok {
		return fmt.Errorf("ingredient not found: %s", id)
	}
	delete(m.ingredients, id)
	for _, mi := range m.menuItems {
		kept := mi.Recipe[:0]
		for _, line := range mi.Recipe {
			if line.IngredientID != id {
				kept = append(kept, line)
			}
		}
		mi.Recipe = kept
	}
	return nil
}

// Tables

func (m *memStore) GetTable(ctx context.Context, id int64) (*models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("table not found: %d", id)
	}
	c := *t
	return &c, nil
}

func (m *memStore) ListTables(ctx context.Context, restaurantID string) ([]models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Table, 0)
	for _, t := range m.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateTable(ctx context.Context, t *models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[t.ID]; !ok {
		return fmt.Errorf("table not found: %d", t.ID)
	}
	c := *t
	m.tables[t.ID] = &c
	return nil
}

func (m *memStore) CreateTable(ctx context.Context, t *models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextTableID++
		t.ID = m.nextTableID
	} else if t.ID > m.nextTableID {
		m.nextTableID = t.ID
	}
	c := *t
	m.tables[t.ID] = &c
	return nil
}

func (m *memStore) ReplaceTableLayout(ctx context.Context, restaurantID string, tables []models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tables {
		if t.RestaurantID == restaurantID {
			delete(m.tables, id)
		}
	}
	for i := range tables {
		t := tables[i]
		t.RestaurantID = restaurantID
		if t.ID == 0 {
			m.nextTableID++
			t.ID = m.nextTableID
		} else if t.ID > m.nextTableID {
			m.nextTableID = t.ID
		}
		m.tables[t.ID] = &t
	}
	return nil
}

// Users

func (m *memStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found: %s", id)
	}
	c := *u
	return &c, nil
}

func (m *memStore) ListUsers(ctx context.Context, restaurantID string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0)
	for _, u := range m.users {
		if u.RestaurantID == restaurantID && !u.Deleted {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memStore) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memStore) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("user not found: %s", u.ID)
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memStore) SetDeliveryStatus(ctx context.Context, userID string, status models.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.DeliveryStatus = status
	return nil
}

func (m *memStore) SetUserLocation(ctx context.Context, userID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %s", userID)
	}
	u.LastLocation = &models.Location{Lat: lat, Lng: lng, UpdatedAt: time.Now()}
	return nil
}

func (m *memStore) CountAdmins(ctx context.Context, restaurantID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, u := range m.users {
		if u.RestaurantID == restaurantID && u.Role == models.RoleAdmin && !u.Deleted {
			count++
		}
	}
	return count, nil
}

// Customers

func (m *memStore) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer not found: %s", id)
	}
	cc := *c
	return &cc, nil
}

func (m *memStore) ListCustomers(ctx context.Context, restaurantID string) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Customer, 0)
	for _, c := range m.customers {
		if c.RestaurantID == restaurantID && !c.Deleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) FindCustomerByContact(ctx context.Context, restaurantID, contact string) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.RestaurantID != restaurantID || c.Deleted {
			continue
		}
		if (contact != "" && c.Phone == contact) || (contact != "" && c.Email == contact) {
			cc := *c
			return &cc, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc := *c
	m.customers[c.ID] = &cc
	return nil
}

func (m *memStore) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[c.ID]; !ok {
		return fmt.Errorf("customer not found: %s", c.ID)
	}
	cc := *c
	m.customers[c.ID] = &cc
	return nil
}

func (m *memStore) SetCustomerVerified(ctx context.Context, id string, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return fmt.Errorf("customer not found: %s", id)
	}
	c.IsVerified = verified
	return nil
}

func (m *memStore) UpdateCustomerStats(ctx context.Context, id string, ltv float64, lastPurchaseAt time.Time, avgFrequencyDays float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return fmt.Errorf("customer not found: %s", id)
	}
	c.LTV = ltv
	c.LastPurchaseAt = lastPurchaseAt
	c.AvgFrequencyDays = avgFrequencyDays
	return nil
}

func (m *memStore) CountDeliveredOrdersForCustomer(ctx context.Context, customerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, o := range m.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID && o.Status == models.OrderStatusDelivered {
			count++
		}
	}
	return count, nil
}

// Coupons

func (m *memStore) ListCoupons(ctx context.Context, restaurantID string) ([]models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Coupon, 0)
	for _, c := range m.coupons {
		if c.RestaurantID == restaurantID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) GetCouponByCode(ctx context.Context, restaurantID, code string) (*models.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.coupons {
		if c.RestaurantID == restaurantID && c.Code == code {
			cc := *c
			return &cc, nil
		}
	}
	return nil, fmt.Errorf("coupon not found: %s", code)
}

func (m *memStore) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc := *c
	m.coupons[c.ID] = &cc
	return nil
}

func (m *memStore) UpdateCoupon(ctx context.Context, c *models.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[c.ID]; !ok {
		return fmt.Errorf("coupon not found: %s", c.ID)
	}
	cc := *c
	m.coupons[c.ID] = &cc
	return nil
}

func (m *memStore) DeleteCoupon(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[id]; !ok {
		return fmt.Errorf("coupon not found: %s", id)
	}
	delete(m.coupons, id)
	return nil
}

// Reports

func (m *memStore) SalesTotals(ctx context.Context, restaurantID string, from, to time.Time) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	var count int
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && o.Status == models.OrderStatusDelivered &&
			!o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			total += o.Total
			count++
		}
	}
	return total, count, nil
}

func (m *memStore) SalesByCategory(ctx context.Context, restaurantID string, from, to time.Time) ([]store.CategorySales, error) {
	return nil, nil
}

func (m *memStore) SalesByHour(ctx context.Context, restaurantID string, from, to time.Time) ([]store.HourlySales, error) {
	return nil, nil
}

func (m *memStore) SalesByType(ctx context.Context, restaurantID string, from, to time.Time) ([]store.TypeSales, error) {
	return nil, nil
}

func (m *memStore) TopProducts(ctx context.Context, restaurantID string, from, to time.Time, limit int) ([]store.ProductSales, error) {
	return nil, nil
}

func (m *memStore) StaffPerformance(ctx context.Context, restaurantID string, from, to time.Time) ([]store.StaffSales, error) {
	return nil, nil
}
