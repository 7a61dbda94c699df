package service

import (
	"context"
	"testing"
	"time"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRestaurant = "r1"

type fixture struct {
	st         *memStore
	orders     *OrderService
	payments   *PaymentService
	deliveries *DeliveryService
	menu       *MenuService
	inventory  *InventoryService
	tables     *TableService
	coupons    *CouponService
}

// newFixture seeds a restaurant with two ingredients, a recipe-backed pizza,
// a recipe-less soda, one free table, staff and two customers (one verified).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := newMemStore()

	st.restaurants[testRestaurant] = &models.Restaurant{
		ID: testRestaurant,
		Settings: models.Settings{
			Name:    "Testaurant",
			TaxRate: 0.10,
		},
	}
	st.ingredients["flour"] = &models.Ingredient{
		ID: "flour", RestaurantID: testRestaurant, Name: "Flour", Unit: "gr",
		StockOnHand: 1000, UnitCost: 0.01,
	}
	st.ingredients["cheese"] = &models.Ingredient{
		ID: "cheese", RestaurantID: testRestaurant, Name: "Cheese", Unit: "gr",
		StockOnHand: 500, UnitCost: 0.05,
	}
	st.menuItems["pizza"] = &models.MenuItem{
		ID: "pizza", RestaurantID: testRestaurant, Name: "Pizza", BasePrice: 10,
		Available: true,
		Recipe: []models.RecipeLine{
			{IngredientID: "flour", Quantity: 200},
			{IngredientID: "cheese", Quantity: 100},
		},
	}
	st.menuItems["soda"] = &models.MenuItem{
		ID: "soda", RestaurantID: testRestaurant, Name: "Soda", BasePrice: 2,
		Available: true,
	}
	st.tables[1] = &models.Table{
		ID: 1, RestaurantID: testRestaurant, Name: "T1", Status: models.TableStatusFree,
	}
	st.nextTableID = 1
	st.users["waiter"] = &models.User{
		ID: "waiter", RestaurantID: testRestaurant, Name: "Wanda", Role: models.RoleWaiter,
	}
	st.users["rider"] = &models.User{
		ID: "rider", RestaurantID: testRestaurant, Name: "Remy", Role: models.RoleDelivery,
		DeliveryStatus: models.DeliveryStatusAvailable,
	}
	st.customers["verified"] = &models.Customer{
		ID: "verified", RestaurantID: testRestaurant, Name: "Vera",
		Phone: "111", IsVerified: true,
	}
	st.customers["unverified"] = &models.Customer{
		ID: "unverified", RestaurantID: testRestaurant, Name: "Uma",
		Phone: "222",
	}

	coupons := NewCouponService(st)
	orders := NewOrderService(st, nil, nil, coupons, time.Second, time.Hour)
	return &fixture{
		st:         st,
		orders:     orders,
		payments:   NewPaymentService(orders, st, nil),
		deliveries: NewDeliveryService(st, nil),
		menu:       NewMenuService(st),
		inventory:  NewInventoryService(st, nil, nil),
		tables:     NewTableService(st),
		coupons:    coupons,
	}
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func (f *fixture) stock(t *testing.T, id string) float64 {
	t.Helper()
	ing, err := f.st.GetIngredient(context.Background(), id)
	require.NoError(t, err)
	return ing.StockOnHand
}

func (f *fixture) dineInOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), CreateOrderInput{
		RestaurantID: testRestaurant,
		Type:         models.OrderTypeDineIn,
		TableID:      int64Ptr(1),
		CreatedByID:  "waiter",
		WaiterID:     strPtr("waiter"),
		Items:        []OrderItemInput{{MenuItemID: "pizza", Quantity: 2}},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderInitialStatusByType(t *testing.T) {
	ctx := context.Background()

	t.Run("dine-in starts NEW and occupies the table", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)

		assert.Equal(t, models.OrderStatusNew, order.Status)
		table, err := f.st.GetTable(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.TableStatusOccupied, table.Status)
		require.NotNil(t, table.OrderID)
		assert.Equal(t, order.ID, *table.OrderID)
	})

	t.Run("takeaway starts PENDING_PAYMENT", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant,
			Type:         models.OrderTypeTakeaway,
			CreatedByID:  "waiter",
			Items:        []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPendingPayment, order.Status)
	})

	t.Run("delivery starts NEW with a verified customer", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant,
			Type:         models.OrderTypeDelivery,
			CustomerID:   strPtr("verified"),
			CreatedByID:  "waiter",
			Items:        []OrderItemInput{{MenuItemID: "pizza", Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusNew, order.Status)
	})
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		input CreateOrderInput
		kind  apperr.Kind
	}{
		{
			name: "empty items",
			input: CreateOrderInput{
				RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
			},
			kind: apperr.KindValidation,
		},
		{
			name: "unknown type",
			input: CreateOrderInput{
				RestaurantID: testRestaurant, Type: "DRIVE_THROUGH",
				Items: []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
			},
			kind: apperr.KindValidation,
		},
		{
			name: "dine-in without table",
			input: CreateOrderInput{
				RestaurantID: testRestaurant, Type: models.OrderTypeDineIn,
				Items: []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
			},
			kind: apperr.KindValidation,
		},
		{
			name: "delivery with unverified customer",
			input: CreateOrderInput{
				RestaurantID: testRestaurant, Type: models.OrderTypeDelivery,
				CustomerID: strPtr("unverified"),
				Items:      []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
			},
			kind: apperr.KindBusinessRule,
		},
		{
			name: "unknown menu item",
			input: CreateOrderInput{
				RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
				Items: []OrderItemInput{{MenuItemID: "ghost", Quantity: 1}},
			},
			kind: apperr.KindValidation,
		},
		{
			name: "non-positive quantity",
			input: CreateOrderInput{
				RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
				Items: []OrderItemInput{{MenuItemID: "soda", Quantity: 0}},
			},
			kind: apperr.KindValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, tt.kind), "got kind %v", apperr.KindOf(err))
		})
	}

	t.Run("occupied table is refused", func(t *testing.T) {
		f := newFixture(t)
		f.dineInOrder(t)
		_, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant, Type: models.OrderTypeDineIn,
			TableID: int64Ptr(1), CreatedByID: "waiter",
			Items: []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindBusinessRule))
	})
}

func TestCreateOrderPricing(t *testing.T) {
	ctx := context.Background()

	t.Run("tax added on top", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
			CreatedByID: "waiter", Tip: 1,
			Items: []OrderItemInput{{MenuItemID: "pizza", Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, 20.0, order.Subtotal)
		assert.InDelta(t, 2.0, order.Tax, 1e-9)
		assert.InDelta(t, 23.0, order.Total, 1e-9)
	})

	t.Run("tax extracted when prices include it", func(t *testing.T) {
		f := newFixture(t)
		f.st.restaurants[testRestaurant].PricesIncludeTax = true
		order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
			CreatedByID: "waiter",
			Items:       []OrderItemInput{{MenuItemID: "pizza", Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, 20.0, order.Subtotal)
		assert.InDelta(t, 20.0-20.0/1.1, order.Tax, 1e-9)
		assert.InDelta(t, 20.0, order.Total, 1e-9)
	})

	t.Run("coupon discounts before tax", func(t *testing.T) {
		f := newFixture(t)
		f.st.coupons["c1"] = &models.Coupon{
			ID: "c1", RestaurantID: testRestaurant, Code: "HALF",
			Type: models.CouponTypePercent, Value: 50, Active: true,
		}
		order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
			CreatedByID: "waiter", CouponCode: "half",
			Items: []OrderItemInput{{MenuItemID: "pizza", Quantity: 2}},
		})
		require.NoError(t, err)
		assert.Equal(t, 10.0, order.Discount)
		assert.InDelta(t, 1.0, order.Tax, 1e-9)
		assert.InDelta(t, 11.0, order.Total, 1e-9)
	})
}

func TestOrderItemSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.dineInOrder(t)

	// A later price change must not rewrite the open order.
	f.st.menuItems["pizza"].BasePrice = 99
	reloaded, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "Pizza", reloaded.Items[0].NameSnapshot)
	assert.Equal(t, 10.0, reloaded.Items[0].UnitPrice)
	assert.Equal(t, 20.0, reloaded.Items[0].LineTotal)
}

func TestSetStatusRejectsInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.dineInOrder(t)

	_, err := f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	// DELIVERED via setStatus is delivery/takeaway territory.
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	// Same-status is a no-op rejection, not a silent success.
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusNew)
	require.Error(t, err)
}

func TestStockDeductionOnPreparing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.dineInOrder(t)

	_, err := f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	// 2 pizzas: 400 flour, 200 cheese.
	assert.Equal(t, 600.0, f.stock(t, "flour"))
	assert.Equal(t, 300.0, f.stock(t, "cheese"))

	// Moving on does not deduct again.
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, 600.0, f.stock(t, "flour"))
	assert.Equal(t, 300.0, f.stock(t, "cheese"))
}

func TestStockDeductionGoesNegative(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.st.ingredients["flour"].StockOnHand = 100

	order := f.dineInOrder(t)
	_, err := f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, -300.0, f.stock(t, "flour"))
}

func TestCancelRestoresStock(t *testing.T) {
	ctx := context.Background()

	t.Run("cancel before kitchen leaves stock alone", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)
		_, err := f.orders.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, f.stock(t, "flour"))
		assert.Equal(t, 500.0, f.stock(t, "cheese"))
	})

	t.Run("cancel after deduction restores exactly", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)
		_, err := f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
		require.NoError(t, err)
		_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
		require.NoError(t, err)

		cancelled, err := f.orders.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
		assert.Equal(t, 1000.0, f.stock(t, "flour"))
		assert.Equal(t, 500.0, f.stock(t, "cheese"))
	})

	t.Run("restore uses the recipe as it stands now", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)
		_, err := f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
		require.NoError(t, err)

		// Kitchen reworks the recipe while the order cooks.
		f.st.menuItems["pizza"].Recipe = []models.RecipeLine{
			{IngredientID: "flour", Quantity: 150},
		}
		_, err = f.orders.Cancel(ctx, order.ID)
		require.NoError(t, err)
		// Deducted 400 flour, restored 300; cheese deducted 200, restored 0.
		assert.Equal(t, 900.0, f.stock(t, "flour"))
		assert.Equal(t, 300.0, f.stock(t, "cheese"))
	})

	t.Run("terminal orders cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)
		_, err := f.orders.Cancel(ctx, order.ID)
		require.NoError(t, err)
		_, err = f.orders.Cancel(ctx, order.ID)
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})
}

func TestCancelReleasesTable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.dineInOrder(t)

	_, err := f.orders.Cancel(ctx, order.ID)
	require.NoError(t, err)

	table, err := f.st.GetTable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusNeedsCleaning, table.Status)
	assert.Nil(t, table.OrderID)
}

func TestDineInLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.dineInOrder(t)

	for _, next := range []models.OrderStatus{
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusPendingPayment,
	} {
		var err error
		order, err = f.orders.SetStatus(ctx, order.ID, next)
		require.NoError(t, err)
	}

	// Settling the bill completes the order and frees the table for cleaning.
	paid, err := f.payments.AddPayment(ctx, order.ID, AddPaymentInput{Method: "CARD", Amount: order.Total})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, paid.Status)

	table, err := f.st.GetTable(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusNeedsCleaning, table.Status)

	cleaned, err := f.tables.Clean(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusFree, cleaned.Status)
}

func TestTakeawayLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
		CreatedByID: "waiter",
		Items:       []OrderItemInput{{MenuItemID: "pizza", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPendingPayment, order.Status)

	// Partial payment does not move the order.
	order, err = f.payments.AddPayment(ctx, order.ID, AddPaymentInput{Method: "CASH", Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPendingPayment, order.Status)

	// Covering the rest sends it to the kitchen.
	order, err = f.payments.AddPayment(ctx, order.ID, AddPaymentInput{Method: "CASH", Amount: order.Total - 5})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusNew, order.Status)

	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
	require.NoError(t, err)
	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
}

func TestDeliveryLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		RestaurantID: testRestaurant, Type: models.OrderTypeDelivery,
		CustomerID: strPtr("verified"), CreatedByID: "waiter",
		Items: []OrderItemInput{{MenuItemID: "pizza", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
	require.NoError(t, err)

	order, err = f.deliveries.Assign(ctx, order.ID, "rider")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusEnRoute, order.Status)
	require.NotNil(t, order.DeliveryPersonID)
	assert.Equal(t, "rider", *order.DeliveryPersonID)

	rider, err := f.st.GetUser(ctx, "rider")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusOnDelivery, rider.DeliveryStatus)

	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	rider, err = f.st.GetUser(ctx, "rider")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusAvailable, rider.DeliveryStatus)
}

func TestDeliveryIssuePath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		RestaurantID: testRestaurant, Type: models.OrderTypeDelivery,
		CustomerID: strPtr("verified"), CreatedByID: "waiter",
		Items: []OrderItemInput{{MenuItemID: "pizza", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
	require.NoError(t, err)
	_, err = f.deliveries.Assign(ctx, order.ID, "rider")
	require.NoError(t, err)

	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusIssue)
	require.NoError(t, err)

	// ISSUE can resolve back out, retry the trip, or end as RETURNED.
	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusEnRoute)
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusIssue)
	require.NoError(t, err)
	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReturned)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReturned, order.Status)

	// RETURNED is terminal: the rider is released, stock stays consumed.
	rider, err := f.st.GetUser(ctx, "rider")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusAvailable, rider.DeliveryStatus)
	assert.Equal(t, 800.0, f.stock(t, "flour"))
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("item edits reprice the order", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)

		items := []OrderItemInput{{MenuItemID: "soda", Quantity: 3}}
		updated, err := f.orders.UpdateOrder(ctx, order.ID, UpdateOrderInput{Items: &items})
		require.NoError(t, err)
		assert.Equal(t, 6.0, updated.Subtotal)
		assert.InDelta(t, 6.6, updated.Total, 1e-9)
		require.Len(t, updated.Items, 1)
		assert.Equal(t, "Soda", updated.Items[0].NameSnapshot)
	})

	t.Run("item edits are refused once cooking", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)
		_, err := f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
		require.NoError(t, err)

		items := []OrderItemInput{{MenuItemID: "soda", Quantity: 1}}
		_, err = f.orders.UpdateOrder(ctx, order.ID, UpdateOrderInput{Items: &items})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})

	t.Run("tip change shifts the total", func(t *testing.T) {
		f := newFixture(t)
		order := f.dineInOrder(t)
		before := order.Total

		tip := 5.0
		updated, err := f.orders.UpdateOrder(ctx, order.ID, UpdateOrderInput{Tip: &tip})
		require.NoError(t, err)
		assert.InDelta(t, before+5, updated.Total, 1e-9)
	})

	t.Run("switch to delivery needs a verified customer", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
			RestaurantID: testRestaurant, Type: models.OrderTypeTakeaway,
			CreatedByID: "waiter",
			Items:       []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
		})
		require.NoError(t, err)

		typ := models.OrderTypeDelivery
		_, err = f.orders.UpdateOrder(ctx, order.ID, UpdateOrderInput{
			Type: &typ, CustomerID: strPtr("unverified"),
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

		updated, err := f.orders.UpdateOrder(ctx, order.ID, UpdateOrderInput{
			Type: &typ, CustomerID: strPtr("verified"),
		})
		require.NoError(t, err)
		assert.Equal(t, models.OrderTypeDelivery, updated.Type)
	})
}

func TestCreatePublicOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("matches an existing customer by contact", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.CreatePublicOrder(ctx, PublicOrderInput{
			RestaurantID: testRestaurant,
			Type:         models.OrderTypeTakeaway,
			Contact:      "111",
			Items:        []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
		})
		require.NoError(t, err)
		require.NotNil(t, order.CustomerID)
		assert.Equal(t, "verified", *order.CustomerID)
	})

	t.Run("creates an unverified profile for new contacts", func(t *testing.T) {
		f := newFixture(t)
		order, err := f.orders.CreatePublicOrder(ctx, PublicOrderInput{
			RestaurantID: testRestaurant,
			Type:         models.OrderTypeTakeaway,
			CustomerName: "Nia",
			Contact:      "333",
			Items:        []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
		})
		require.NoError(t, err)
		require.NotNil(t, order.CustomerID)
		customer, err := f.st.GetCustomer(ctx, *order.CustomerID)
		require.NoError(t, err)
		assert.False(t, customer.IsVerified)
	})

	t.Run("dine-in is staff only", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.orders.CreatePublicOrder(ctx, PublicOrderInput{
			RestaurantID: testRestaurant,
			Type:         models.OrderTypeDineIn,
			Contact:      "111",
			Items:        []OrderItemInput{{MenuItemID: "soda", Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})
}
