package models

import (
	"time"

	"gorm.io/gorm"
)

// Vendor is a shop, café or restaurant listing surplus food.
type Vendor struct {
	gorm.Model
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Street      string  `gorm:"size:255" json:"street"`
	City        string  `gorm:"size:100;index" json:"city"`
	Zip         string  `gorm:"size:20" json:"zip"`
	Country     string  `gorm:"size:2;default:DK" json:"country"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Rating      float64 `gorm:"default:0" json:"rating"`
}

// FoodItem is one surplus listing. Quantity is the authoritative remaining
// stock; every successful order decrements it and it never goes below zero.
type FoodItem struct {
	gorm.Model
	VendorID    uint   `gorm:"not null;index" json:"vendor_id"`
	Vendor      Vendor `json:"vendor,omitempty"`
	Name        string `gorm:"size:255;not null;index" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"` // "bakery", "meals", "groceries", ...

	OriginalPrice   float64 `gorm:"not null;default:0" json:"original_price"`
	DiscountedPrice float64 `gorm:"not null;default:0" json:"discounted_price"`
	Quantity        int     `gorm:"not null;default:0" json:"quantity"`

	ExpiryDate  time.Time `json:"expiry_date"`
	Ingredients string    `gorm:"type:text" json:"ingredients,omitempty"`
	DietaryInfo string    `gorm:"size:255" json:"dietary_info,omitempty"` // "vegetarian,gluten-free"
	ImageURL    string    `gorm:"size:512" json:"image_url,omitempty"`

	// EmissionsSaved is the estimated kg CO2e avoided per unit rescued,
	// filled from the emission estimator when the listing is created.
	EmissionsSaved float64 `json:"emissions_saved"`
}

// Available reports whether the item can satisfy a request for qty units.
func (f *FoodItem) Available(qty int) bool {
	return f.Quantity >= qty && qty > 0
}
