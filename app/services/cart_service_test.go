package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/app/services"
)

func TestCartReconciliationCapsWithoutMutating(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 2)
	user := seedUser(t, db, "buyer@example.com")

	store := services.NewMemoryCartStore()
	carts := services.NewCartService(store)

	require.NoError(t, carts.Set(user.ID, []repositories.Line{{FoodItemID: item.ID, Quantity: 5}}))

	view, err := carts.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)

	line := view.Lines[0]
	assert.Equal(t, 5, line.Requested)
	assert.Equal(t, 2, line.Available)
	assert.Equal(t, 2, line.Effective)
	assert.Equal(t, "Only 2 available, but 5 requested", line.Warning)
	assert.Equal(t, 1, view.Warnings)
	assert.InDelta(t, 8.0, view.Subtotal, 1e-9)

	// The stored cart keeps the requested quantity; reconciliation is
	// advisory.
	stored, err := store.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 5, stored.Items[0].Quantity)
}

func TestCartFlagsRemovedItems(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 2)
	user := seedUser(t, db, "buyer@example.com")

	carts := services.NewCartService(services.NewMemoryCartStore())
	require.NoError(t, carts.Set(user.ID, []repositories.Line{{FoodItemID: item.ID, Quantity: 1}}))

	require.NoError(t, db.Delete(&item).Error)

	view, err := carts.Get(user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.NotEmpty(t, view.Lines[0].Warning)
	assert.Zero(t, view.Lines[0].Available)
}

func TestCartEmptyByDefault(t *testing.T) {
	setupDB(t)

	carts := services.NewCartService(services.NewMemoryCartStore())
	view, err := carts.Get(42)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.Subtotal)
}

func TestCartCheckoutPlacesOrderAndClears(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 5)
	user := seedUser(t, db, "buyer@example.com")

	store := services.NewMemoryCartStore()
	carts := services.NewCartService(store)
	orders := services.NewOrderService()

	require.NoError(t, carts.Set(user.ID, []repositories.Line{{FoodItemID: item.ID, Quantity: 3}}))

	order, err := carts.Checkout(user.ID, orders, services.PlaceOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, 2, stockOf(t, db, item.ID))
	assert.Equal(t, 1.5, order.FoodSavedKg)

	stored, err := store.Get(user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Items)
}

func TestCartCheckoutKeepsCartOnConflict(t *testing.T) {
	db := setupDB(t)
	item := seedItem(t, db, "Pastry bag", 4.0, 2)
	user := seedUser(t, db, "buyer@example.com")

	store := services.NewMemoryCartStore()
	carts := services.NewCartService(store)
	orders := services.NewOrderService()

	require.NoError(t, carts.Set(user.ID, []repositories.Line{{FoodItemID: item.ID, Quantity: 3}}))

	_, err := carts.Checkout(user.ID, orders, services.PlaceOrderInput{})
	var conflict *repositories.StockConflictError
	require.ErrorAs(t, err, &conflict)

	// Cart survives a failed checkout so the buyer can adjust it.
	stored, err := store.Get(user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stockOf(t, db, item.ID))
}
