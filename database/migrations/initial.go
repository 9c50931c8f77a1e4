package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_vendors_table", &CreateVendorsTable{})
	migration.Register("20260301000002_create_food_items_table", &CreateFoodItemsTable{})
	migration.Register("20260301000003_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260301000004_create_user_details_tables", &CreateUserDetailsTables{})
}

// -------- 0000: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0001: vendors --------

type CreateVendorsTable struct{}

func (m *CreateVendorsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Vendor{})
}

func (m *CreateVendorsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("vendors")
}

// -------- 0002: food_items --------

type CreateFoodItemsTable struct{}

func (m *CreateFoodItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.FoodItem{})
}

func (m *CreateFoodItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("food_items")
}

// -------- 0003: orders, order_items --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items", "orders")
}

// -------- 0004: addresses, payment_methods --------

type CreateUserDetailsTables struct{}

func (m *CreateUserDetailsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Address{}, &models.PaymentMethod{})
}

func (m *CreateUserDetailsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("payment_methods", "addresses")
}
