package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/routes"
	"github.com/shashiranjanraj/lastbite/pkg/database"
	"github.com/shashiranjanraj/lastbite/pkg/router"
)

// apiEnvelope mirrors the response envelope for decoding.
type apiEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func setupAPI(t *testing.T) http.Handler {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.PaymentMethod{},
		&models.Vendor{}, &models.FoodItem{},
		&models.Order{}, &models.OrderItem{},
	))

	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = nil
	})

	r := router.New()
	routes.RegisterAPI(r)
	return r.Handler()
}

func seedCatalogItem(t *testing.T, quantity int) models.FoodItem {
	t.Helper()

	vendor := models.Vendor{Name: "Test Bakery", City: "Copenhagen", Country: "DK"}
	require.NoError(t, database.DB.Create(&vendor).Error)

	item := models.FoodItem{
		VendorID:        vendor.ID,
		Name:            "Pastry bag",
		Category:        "bakery",
		OriginalPrice:   12,
		DiscountedPrice: 4,
		Quantity:        quantity,
	}
	require.NoError(t, database.DB.Create(&item).Error)
	return item
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec, env
}

// registerAndLogin creates a consumer account and returns its token.
func registerAndLogin(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	rec, env := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Test Buyer",
		"email":    email,
		"password": "secret-password",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := setupAPI(t)
	registerAndLogin(t, h, "dup@example.com")

	rec, env := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":     "Another",
		"email":    "dup@example.com",
		"password": "secret-password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", env.Message)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := setupAPI(t)
	registerAndLogin(t, h, "buyer@example.com")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "buyer@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "buyer@example.com",
		"password": "secret-password",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogShow404(t *testing.T) {
	h := setupAPI(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/items/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogListsItems(t *testing.T) {
	h := setupAPI(t)
	seedCatalogItem(t, 5)

	rec, env := doJSON(t, h, http.MethodGet, "/api/items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.FoodItem
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Pastry bag", items[0].Name)
}

func TestOrdersRequireAuth(t *testing.T) {
	h := setupAPI(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/orders", "", map[string]interface{}{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPlaceOrderEndToEnd(t *testing.T) {
	h := setupAPI(t)
	item := seedCatalogItem(t, 5)
	token := registerAndLogin(t, h, "buyer@example.com")

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"food_item_id": item.ID, "quantity": 3},
		},
		"pickup_address": "Test Bakery, Copenhagen",
		"pickup_time":    "2026-09-02T17:30:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, models.OrderConfirmed, order.Status)
	assert.Equal(t, 1.5, order.FoodSavedKg)
	assert.Equal(t, 3.75, order.CO2SavedKg)

	// Stock is down to 2; ordering 3 more must fail with per-item detail.
	rec, env = doJSON(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"food_item_id": item.ID, "quantity": 3},
		},
		"pickup_address": "Test Bakery, Copenhagen",
		"pickup_time":    "2026-09-02T17:30:00Z",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var details struct {
		Unavailable []struct {
			FoodItemID uint   `json:"food_item_id"`
			Reason     string `json:"reason"`
		} `json:"unavailable_items"`
	}
	require.NoError(t, json.Unmarshal(env.Errors, &details))
	require.Len(t, details.Unavailable, 1)
	assert.Equal(t, item.ID, details.Unavailable[0].FoodItemID)
	assert.Equal(t, "Only 2 available, but 3 requested", details.Unavailable[0].Reason)
}

func TestPlaceOrderRequiresPickupFields(t *testing.T) {
	h := setupAPI(t)
	item := seedCatalogItem(t, 5)
	token := registerAndLogin(t, h, "buyer@example.com")

	rec, env := doJSON(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"food_item_id": item.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", rec.Body.String())

	var errs map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &errs))
	assert.Contains(t, errs, "pickup_address")
	assert.Contains(t, errs, "pickup_time")

	// Nothing was persisted.
	var count int64
	database.DB.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCatalogShowMalformedID(t *testing.T) {
	h := setupAPI(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/items/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceOrderUnknownItem404(t *testing.T) {
	h := setupAPI(t)
	token := registerAndLogin(t, h, "buyer@example.com")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"items": []map[string]interface{}{
			{"food_item_id": 999, "quantity": 1},
		},
		"pickup_address": "Test Bakery, Copenhagen",
		"pickup_time":    "2026-09-02T17:30:00Z",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHistory(t *testing.T) {
	h := setupAPI(t)
	item := seedCatalogItem(t, 10)
	token := registerAndLogin(t, h, "buyer@example.com")

	// Fresh accounts have an empty history, not an error.
	rec, env := doJSON(t, h, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Empty(t, orders)

	for i := 0; i < 2; i++ {
		rec, _ := doJSON(t, h, http.MethodPost, "/api/orders", token, map[string]interface{}{
			"items": []map[string]interface{}{
				{"food_item_id": item.ID, "quantity": i + 1},
			},
			"pickup_address": "Test Bakery, Copenhagen",
			"pickup_time":    "2026-09-02T17:30:00Z",
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env = doJSON(t, h, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 2)
	// Newest first: the second order requested quantity 2.
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}

func TestProfileRoundTrip(t *testing.T) {
	h := setupAPI(t)
	token := registerAndLogin(t, h, "buyer@example.com")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/profile/addresses", token, map[string]string{
		"label":  "home",
		"street": "Nørrebrogade 42",
		"city":   "Copenhagen",
		"zip":    "2200",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	rec, env := doJSON(t, h, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.Len(t, user.Addresses, 1)
	assert.Equal(t, "Copenhagen", user.Addresses[0].City)
}

func TestVendorEndpointsRequireVendorRole(t *testing.T) {
	h := setupAPI(t)
	token := registerAndLogin(t, h, "buyer@example.com")

	rec, _ := doJSON(t, h, http.MethodGet, "/api/vendor/orders", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidationErrorsAreFieldKeyed(t *testing.T) {
	h := setupAPI(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/register", "", map[string]string{
		"name":  "No Email",
		"email": "not-an-email",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errs map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &errs))
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}
