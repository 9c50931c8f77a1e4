// Package models holds the persistent data types shared by repositories,
// services and controllers.
package models

import "gorm.io/gorm"

// Roles a user account can hold.
const (
	RoleConsumer = "consumer"
	RoleVendor   = "vendor"
)

// User is a marketplace account. Consumers place orders; vendor users manage
// a Vendor's surplus listings.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Phone    string `gorm:"size:50" json:"phone,omitempty"`
	Role     string `gorm:"size:50;default:consumer" json:"role"`

	// VendorID links a vendor-role user to the vendor it manages. Zero for
	// consumers.
	VendorID uint `gorm:"index" json:"vendor_id,omitempty"`

	Addresses      []Address       `json:"addresses,omitempty"`
	PaymentMethods []PaymentMethod `json:"payment_methods,omitempty"`
}

// Address is a delivery/billing address attached to a user. Addresses are
// append-only from the API; there is no edit-in-place.
type Address struct {
	gorm.Model
	UserID  uint   `gorm:"not null;index" json:"-"`
	Label   string `gorm:"size:100" json:"label"` // "home", "work", ...
	Street  string `gorm:"size:255;not null" json:"street"`
	City    string `gorm:"size:100;not null" json:"city"`
	Zip     string `gorm:"size:20" json:"zip"`
	Country string `gorm:"size:2;default:DK" json:"country"` // ISO 3166-1 alpha-2
}

// PaymentMethod stores a tokenised card reference. CardNumber holds the
// AES-GCM ciphertext produced by pkg/crypt; only Last4 and Brand are ever
// returned to clients.
type PaymentMethod struct {
	gorm.Model
	UserID     uint   `gorm:"not null;index" json:"-"`
	Brand      string `gorm:"size:50" json:"brand"`
	Last4      string `gorm:"size:4" json:"last4"`
	CardNumber string `gorm:"type:text;not null" json:"-"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
}
