package services_test

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/database"
)

// setupDB points the shared connection at a throwaway sqlite file and
// migrates the schema. A file (not :memory:) so concurrent transactions in
// the placement tests contend like they would in production.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{}, &models.Address{}, &models.PaymentMethod{},
		&models.Vendor{}, &models.FoodItem{},
		&models.Order{}, &models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		database.DB = nil
	})
	return db
}

// seedItem inserts a vendor-owned listing and returns it.
func seedItem(t *testing.T, db *gorm.DB, name string, price float64, quantity int) models.FoodItem {
	t.Helper()

	vendor := models.Vendor{Name: name + " vendor", City: "Copenhagen", Country: "DK"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	item := models.FoodItem{
		VendorID:        vendor.ID,
		Name:            name,
		Category:        "bakery",
		OriginalPrice:   price * 3,
		DiscountedPrice: price,
		Quantity:        quantity,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

// seedUser inserts a consumer account.
func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{Name: "Test User", Email: email, Password: "x", Role: models.RoleConsumer}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// stockOf re-reads an item's remaining quantity.
func stockOf(t *testing.T, db *gorm.DB, itemID uint) int {
	t.Helper()

	var item models.FoodItem
	if err := db.First(&item, itemID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	return item.Quantity
}
