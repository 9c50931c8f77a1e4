package seeders

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/auth"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts two demo vendors with listings and a vendor login for
// each, skipping when vendors already exist.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Vendor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tomorrow := time.Now().Add(24 * time.Hour)

	vendors := []struct {
		vendor models.Vendor
		email  string
		items  []models.FoodItem
	}{
		{
			vendor: models.Vendor{
				Name: "Nørrebro Bakery", City: "Copenhagen", Country: "DK",
				Street: "Nørrebrogade 42", Zip: "2200",
				Latitude: 55.6944, Longitude: 12.5494, Rating: 4.7,
			},
			email: "bakery@example.com",
			items: []models.FoodItem{
				{
					Name: "Surprise pastry bag", Category: "bakery",
					Description:     "Mixed pastries from today's production.",
					OriginalPrice:   12.0, DiscountedPrice: 4.0, Quantity: 5,
					ExpiryDate: tomorrow, DietaryInfo: "vegetarian",
				},
				{
					Name: "Rye bread loaf", Category: "bakery",
					OriginalPrice: 6.0, DiscountedPrice: 2.0, Quantity: 8,
					ExpiryDate: tomorrow,
				},
			},
		},
		{
			vendor: models.Vendor{
				Name: "Green Garden Deli", City: "Copenhagen", Country: "DK",
				Street: "Vesterbrogade 12", Zip: "1620",
				Latitude: 55.6715, Longitude: 12.5542, Rating: 4.4,
			},
			email: "deli@example.com",
			items: []models.FoodItem{
				{
					Name: "Veggie lunch box", Category: "meals",
					Description:     "Seasonal vegetables with grains.",
					OriginalPrice:   10.0, DiscountedPrice: 3.5, Quantity: 3,
					ExpiryDate: tomorrow, DietaryInfo: "vegan,gluten-free",
				},
			},
		},
	}

	password, err := auth.HashPassword("password")
	if err != nil {
		return err
	}

	for _, entry := range vendors {
		v := entry.vendor
		if err := db.Create(&v).Error; err != nil {
			return err
		}

		for _, item := range entry.items {
			item.VendorID = v.ID
			if err := db.Create(&item).Error; err != nil {
				return err
			}
		}

		user := models.User{
			Name: v.Name, Email: entry.email, Password: password,
			Role: models.RoleVendor, VendorID: v.ID,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}

	return nil
}
