package service

import (
	"context"
	"testing"

	"resto-pos/internal/apperr"
	"resto-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) deliveryOrder(t *testing.T) *models.Order {
	t.Helper()
	ctx := context.Background()
	order, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		RestaurantID: testRestaurant, Type: models.OrderTypeDelivery,
		CustomerID: strPtr("verified"), CreatedByID: "waiter",
		Items: []OrderItemInput{{MenuItemID: "pizza", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)
	order, err = f.orders.SetStatus(ctx, order.ID, models.OrderStatusReady)
	require.NoError(t, err)
	return order
}

func TestAssignExclusivity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.deliveryOrder(t)
	second := f.deliveryOrder(t)

	_, err := f.deliveries.Assign(ctx, first.ID, "rider")
	require.NoError(t, err)

	// One order at a time.
	_, err = f.deliveries.Assign(ctx, second.ID, "rider")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindBusinessRule))

	// Finishing the first trip frees the rider for the second.
	_, err = f.orders.SetStatus(ctx, first.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	_, err = f.deliveries.Assign(ctx, second.ID, "rider")
	require.NoError(t, err)
}

func TestAssignValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.deliveryOrder(t)

	t.Run("only delivery staff", func(t *testing.T) {
		_, err := f.deliveries.Assign(ctx, order.ID, "waiter")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("only delivery orders", func(t *testing.T) {
		dineIn := f.dineInOrder(t)
		_, err := f.deliveries.Assign(ctx, dineIn.ID, "rider")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("not on terminal orders", func(t *testing.T) {
		cancelled := f.deliveryOrder(t)
		_, err := f.orders.Cancel(ctx, cancelled.ID)
		require.NoError(t, err)
		_, err = f.deliveries.Assign(ctx, cancelled.ID, "rider")
		require.Error(t, err)
		assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	})
}

func TestReassignmentReleasesPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.st.users["rider2"] = &models.User{
		ID: "rider2", RestaurantID: testRestaurant, Name: "Rita",
		Role: models.RoleDelivery, DeliveryStatus: models.DeliveryStatusAvailable,
	}

	order := f.deliveryOrder(t)
	_, err := f.deliveries.Assign(ctx, order.ID, "rider")
	require.NoError(t, err)

	order, err = f.deliveries.Assign(ctx, order.ID, "rider2")
	require.NoError(t, err)
	assert.Equal(t, "rider2", *order.DeliveryPersonID)

	rider, err := f.st.GetUser(ctx, "rider")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusAvailable, rider.DeliveryStatus)
	rider2, err := f.st.GetUser(ctx, "rider2")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusOnDelivery, rider2.DeliveryStatus)
}

func TestCancelReleasesRider(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	order := f.deliveryOrder(t)
	_, err := f.deliveries.Assign(ctx, order.ID, "rider")
	require.NoError(t, err)

	_, err = f.orders.Cancel(ctx, order.ID)
	require.NoError(t, err)

	rider, err := f.st.GetUser(ctx, "rider")
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusAvailable, rider.DeliveryStatus)
	// Stock deducted at PREPARING comes back on cancel from EN_ROUTE.
	assert.Equal(t, 1000.0, f.stock(t, "flour"))
}

func TestListAvailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	available, err := f.deliveries.ListAvailable(ctx, testRestaurant)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "rider", available[0].ID)

	order := f.deliveryOrder(t)
	_, err = f.deliveries.Assign(ctx, order.ID, "rider")
	require.NoError(t, err)

	available, err = f.deliveries.ListAvailable(ctx, testRestaurant)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestUpdateLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, f.deliveries.UpdateLocation(ctx, "rider", 52.52, 13.405))
	rider, err := f.st.GetUser(ctx, "rider")
	require.NoError(t, err)
	require.NotNil(t, rider.LastLocation)
	assert.Equal(t, 52.52, rider.LastLocation.Lat)

	err = f.deliveries.UpdateLocation(ctx, "waiter", 0, 0)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
