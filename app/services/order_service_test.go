package services_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/app/services"
)

func TestPlaceOrderDecrementsStockAndSnapshotsImpact(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stockOf(t, db, item.ID))
	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.True(t, strings.HasPrefix(order.Number, "LB-"), "order number %q", order.Number)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 4.0, order.Items[0].UnitPrice)
	assert.InDelta(t, 12.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 12.0+order.ServiceFee, order.Total, 1e-9)

	// Impact: foodSaved = 0.5×3, co2Saved = 2.5×foodSaved.
	assert.Equal(t, 1.5, order.FoodSavedKg)
	assert.Equal(t, 3.75, order.CO2SavedKg)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Rye loaf", 2.0, 2)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 3}},
	})

	var conflict *repositories.StockConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Items, 1)
	assert.Equal(t, item.ID, conflict.Items[0].FoodItemID)
	assert.Equal(t, 2, conflict.Items[0].Available)
	assert.Equal(t, 3, conflict.Items[0].Requested)
	assert.Equal(t, "Only 2 available, but 3 requested", conflict.Items[0].Reason)

	// Nothing persisted.
	assert.Equal(t, 2, stockOf(t, db, item.ID))
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestPlaceOrderUnknownItem(t *testing.T) {
	db := setupDB(t)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: 999, Quantity: 1}},
	})
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestPlaceOrderUnknownAccount(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)

	svc := services.NewOrderService()
	_, err := svc.Place(999, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 1}},
	})
	assert.True(t, errors.Is(err, services.ErrNotFound))
	assert.Equal(t, 5, stockOf(t, db, item.ID))
}

func TestPlaceOrderAllOrNothing(t *testing.T) {
	db := setupDB(t)
	plenty := seedItem(t, db, "Plenty", 3.0, 10)
	scarce := seedItem(t, db, "Scarce", 5.0, 1)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{
			{FoodItemID: plenty.ID, Quantity: 2},
			{FoodItemID: scarce.ID, Quantity: 4},
		},
	})

	var conflict *repositories.StockConflictError
	require.ErrorAs(t, err, &conflict)

	// The satisfiable line must not have been decremented.
	assert.Equal(t, 10, stockOf(t, db, plenty.ID))
	assert.Equal(t, 1, stockOf(t, db, scarce.ID))
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{
			{FoodItemID: item.ID, Quantity: 1},
			{FoodItemID: item.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 2, stockOf(t, db, item.ID))
}

// Two buyers race for 3 units each out of 5: exactly one order may succeed
// and the total of stock plus sold units stays 5.
func TestConcurrentPlacementNeverOversells(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Lunch box", 3.5, 5)
	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	svc := services.NewOrderService()
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, user := range []models.User{alice, bob} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = svc.Place(userID, services.PlaceOrderInput{
				Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 3}},
			})
		}(i, user.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the two competing orders may succeed")
	assert.Equal(t, 2, stockOf(t, db, item.ID))

	var sold int64
	db.Model(&models.OrderItem{}).Select("COALESCE(SUM(quantity), 0)").Scan(&sold)
	assert.EqualValues(t, 3, sold)
}

func TestOrdersNewestFirstAndEmptyHistory(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 10)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()

	// Empty history is a valid, empty list.
	orders, err := svc.Orders(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	first, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	second, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	orders, err = svc.Orders(user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.Number, orders[0].Number)
	assert.Equal(t, first.Number, orders[1].Number)
}

func TestVendorStatusLifecycle(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	vendorID := order.Items[0].VendorID

	order, err = svc.UpdateStatus(vendorID, order.Number, models.OrderReady)
	require.NoError(t, err)
	assert.Equal(t, models.OrderReady, order.Status)

	order, err = svc.UpdateStatus(vendorID, order.Number, models.OrderPickedUp)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPickedUp, order.Status)

	// Picked-up orders are final.
	_, err = svc.UpdateStatus(vendorID, order.Number, models.OrderCancelled)
	assert.True(t, errors.Is(err, services.ErrBadTransition))
}

func TestCancellationRestoresStock(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, stockOf(t, db, item.ID))

	_, err = svc.UpdateStatus(order.Items[0].VendorID, order.Number, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, db, item.ID))
}

func TestConcurrentCancelRestocksOnce(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, stockOf(t, db, item.ID))
	vendorID := order.Items[0].VendorID

	// Two racing cancels: only one may apply, and the stock comes back
	// exactly once.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.UpdateStatus(vendorID, order.Number, models.OrderCancelled)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, services.ErrBadTransition), "unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 5, stockOf(t, db, item.ID))

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderCancelled, stored.Status)
}

func TestPickupTimeAcceptsValidatedLayouts(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 10)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()

	// Date-only input passes the binding rules, so it must survive into the
	// stored order rather than being dropped.
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:      []repositories.Line{{FoodItemID: item.ID, Quantity: 1}},
		PickupTime: "2026-09-02",
	})
	require.NoError(t, err)
	assert.True(t, order.PickupTime.Equal(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)),
		"pickup time %v", order.PickupTime)

	order, err = svc.Place(user.ID, services.PlaceOrderInput{
		Items:      []repositories.Line{{FoodItemID: item.ID, Quantity: 1}},
		PickupTime: "2026-09-02T17:30:00Z",
	})
	require.NoError(t, err)
	assert.True(t, order.PickupTime.Equal(time.Date(2026, 9, 2, 17, 30, 0, 0, time.UTC)),
		"pickup time %v", order.PickupTime)
}

func TestPickupTimeRejectsUnparsable(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	_, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items:      []repositories.Line{{FoodItemID: item.ID, Quantity: 1}},
		PickupTime: "tomorrow-ish",
	})
	assert.True(t, errors.Is(err, services.ErrInvalidPickupTime))
	assert.Equal(t, 5, stockOf(t, db, item.ID))
}

func TestVendorCannotTouchForeignOrder(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	svc := services.NewOrderService()
	order, err := svc.Place(user.ID, services.PlaceOrderInput{
		Items: []repositories.Line{{FoodItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	otherVendor := order.Items[0].VendorID + 100
	_, err = svc.UpdateStatus(otherVendor, order.Number, models.OrderReady)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}
