package models

import "time"

// Restaurant is a tenant. Every other entity is keyed by RestaurantID.
type Restaurant struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Settings
}

// Settings holds per-restaurant configuration used at order-creation time.
type Settings struct {
	Name             string    `db:"name" json:"name"`
	LogoURL          string    `db:"logo_url" json:"logo_url"`
	Address          string    `db:"address" json:"address"`
	Phone            string    `db:"phone" json:"phone"`
	OpeningHours     string    `db:"opening_hours" json:"opening_hours"`
	TaxRate          float64   `db:"tax_rate" json:"tax_rate"`
	PricesIncludeTax bool      `db:"prices_include_tax" json:"prices_include_tax"`
	TipOptions       []float64 `db:"-" json:"tip_options"`
}

// User represents a staff member.
type User struct {
	ID             string         `db:"id" json:"id"`
	RestaurantID   string         `db:"restaurant_id" json:"restaurant_id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	Role           UserRole       `db:"role" json:"role"`
	AvatarURL      string         `db:"avatar_url" json:"avatar_url"`
	DeliveryStatus DeliveryStatus `db:"delivery_status" json:"delivery_status,omitempty"`
	Deleted        bool           `db:"deleted" json:"deleted"`
	LastLocation   *Location      `db:"-" json:"last_location,omitempty"`
}

// Location is the last reported position of a delivery person.
type Location struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer is a buyer profile. IsVerified gates delivery orders.
type Customer struct {
	ID               string    `db:"id" json:"id"`
	RestaurantID     string    `db:"restaurant_id" json:"restaurant_id"`
	Name             string    `db:"name" json:"name"`
	Phone            string    `db:"phone" json:"phone"`
	Email            string    `db:"email" json:"email"`
	LTV              float64   `db:"ltv" json:"ltv"`
	LastPurchaseAt   time.Time `db:"last_purchase_at" json:"last_purchase_at"`
	AvgFrequencyDays float64   `db:"avg_frequency_days" json:"avg_frequency_days"`
	IsVerified       bool      `db:"is_verified" json:"is_verified"`
	Street           string    `db:"street" json:"street"`
	City             string    `db:"city" json:"city"`
	Zip              string    `db:"zip" json:"zip"`
	Lat              float64   `db:"lat" json:"lat"`
	Lng              float64   `db:"lng" json:"lng"`
	Deleted          bool      `db:"deleted" json:"deleted"`
}

// Ingredient tracks raw stock. StockOnHand may go negative under concurrent
// deduction; there is deliberately no lower bound.
type Ingredient struct {
	ID           string             `db:"id" json:"id"`
	RestaurantID string             `db:"restaurant_id" json:"restaurant_id"`
	Name         string             `db:"name" json:"name"`
	Unit         string             `db:"unit" json:"unit"` // gr, ml or unit
	StockOnHand  float64            `db:"stock_on_hand" json:"stock_on_hand"`
	StockMinimum float64            `db:"stock_minimum" json:"stock_minimum"`
	UnitCost     float64            `db:"unit_cost" json:"unit_cost"`
	Category     IngredientCategory `db:"category" json:"category"`
}

// RecipeLine binds a quantity of an ingredient to a menu item. Owned by the
// menu item, never persisted on its own.
type RecipeLine struct {
	IngredientID string  `db:"ingredient_id" json:"ingredient_id"`
	Quantity     float64 `db:"quantity" json:"quantity"`
}

// MenuCategory groups menu items for display ordering.
type MenuCategory struct {
	ID           string `db:"id" json:"id"`
	RestaurantID string `db:"restaurant_id" json:"restaurant_id"`
	Name         string `db:"name" json:"name"`
	SortOrder    int    `db:"sort_order" json:"sort_order"`
}

// MenuItem is a sellable product. Cost and StockOnHand are derived from the
// recipe against current ingredient stock on every read, never persisted.
type MenuItem struct {
	ID                  string       `db:"id" json:"id"`
	RestaurantID        string       `db:"restaurant_id" json:"restaurant_id"`
	CategoryID          string       `db:"category_id" json:"category_id"`
	Name                string       `db:"name" json:"name"`
	Description         string       `db:"description" json:"description"`
	BasePrice           float64      `db:"base_price" json:"base_price"`
	Recipe              []RecipeLine `db:"-" json:"recipe"`
	ImageURL            string       `db:"image_url" json:"image_url"`
	Available           bool         `db:"available" json:"available"`
	PrepTimeMinutes     int          `db:"prep_time_minutes" json:"prep_time_minutes"`
	SellsWhenOutOfStock bool         `db:"sells_when_out_of_stock" json:"sells_when_out_of_stock"`
	Deleted             bool         `db:"deleted" json:"deleted"`

	// Derived on read, never persisted.
	Cost        float64  `db:"-" json:"cost"`
	StockOnHand *float64 `db:"-" json:"stock_on_hand"` // nil means unlimited
}

// Table is a physical dine-in table on the floor plan.
// Invariant: OrderID is non-nil iff Status is OCCUPIED.
type Table struct {
	ID           int64       `db:"id" json:"id"`
	RestaurantID string      `db:"restaurant_id" json:"restaurant_id"`
	Name         string      `db:"name" json:"name"`
	Status       TableStatus `db:"status" json:"status"`
	OrderID      *int64      `db:"order_id" json:"order_id"`
	WaiterID     *string     `db:"waiter_id" json:"waiter_id"`
	X            float64     `db:"x" json:"x"`
	Y            float64     `db:"y" json:"y"`
	Shape        string      `db:"shape" json:"shape"`
}

// Order is the central entity of the engine.
type Order struct {
	ID               int64       `db:"id" json:"id"`
	RestaurantID     string      `db:"restaurant_id" json:"restaurant_id"`
	CustomerID       *string     `db:"customer_id" json:"customer_id"`
	TableID          *int64      `db:"table_id" json:"table_id"`
	CreatedByID      string      `db:"created_by_id" json:"created_by_id"`
	WaiterID         *string     `db:"waiter_id" json:"waiter_id"`
	Type             OrderType   `db:"type" json:"type"`
	Status           OrderStatus `db:"status" json:"status"`
	Subtotal         float64     `db:"subtotal" json:"subtotal"`
	Discount         float64     `db:"discount" json:"discount"`
	Tax              float64     `db:"tax" json:"tax"`
	Tip              float64     `db:"tip" json:"tip"`
	Total            float64     `db:"total" json:"total"`
	Items            []OrderItem `db:"-" json:"items"`
	Payments         []Payment   `db:"-" json:"payments"`
	DeliveryPersonID *string     `db:"delivery_person_id" json:"delivery_person_id"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// TotalPaid sums the order's recorded payments.
func (o *Order) TotalPaid() float64 {
	var sum float64
	for _, p := range o.Payments {
		sum += p.Amount
	}
	return sum
}

// OrderItem snapshots name and price at order-creation time so later menu
// edits do not rewrite history.
type OrderItem struct {
	ID           string  `db:"id" json:"id"`
	OrderID      int64   `db:"order_id" json:"order_id"`
	MenuItemID   string  `db:"menu_item_id" json:"menu_item_id"`
	NameSnapshot string  `db:"name_snapshot" json:"name_snapshot"`
	UnitPrice    float64 `db:"unit_price" json:"unit_price"`
	Quantity     int     `db:"quantity" json:"quantity"`
	LineTotal    float64 `db:"line_total" json:"line_total"`
	Notes        string  `db:"notes" json:"notes,omitempty"`
}

// Payment is one (possibly partial) payment against an order. No single
// payment needs to equal the order total.
type Payment struct {
	ID            string        `db:"id" json:"id"`
	OrderID       int64         `db:"order_id" json:"order_id"`
	Status        PaymentStatus `db:"status" json:"status"`
	Method        string        `db:"method" json:"method"`
	TransactionID string        `db:"transaction_id" json:"transaction_id,omitempty"`
	Amount        float64       `db:"amount" json:"amount"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// Coupon is a discount code redeemable at checkout.
type Coupon struct {
	ID           string     `db:"id" json:"id"`
	RestaurantID string     `db:"restaurant_id" json:"restaurant_id"`
	Code         string     `db:"code" json:"code"`
	Type         CouponType `db:"type" json:"type"`
	Value        float64    `db:"value" json:"value"`
	Active       bool       `db:"active" json:"active"`
	ExpiresAt    time.Time  `db:"expires_at" json:"expires_at"`
	MinSubtotal  *float64   `db:"min_subtotal" json:"min_subtotal"`
}
