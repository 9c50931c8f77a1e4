package models

import (
	"crypto/rand"
	"time"

	"gorm.io/gorm"
)

// Order lifecycle. Vendors move orders forward; cancellation is allowed from
// confirmed or ready, never after pickup.
const (
	OrderConfirmed = "confirmed"
	OrderReady     = "ready"
	OrderPickedUp  = "picked_up"
	OrderCancelled = "cancelled"
)

// DefaultServiceFee is the flat per-order platform fee.
const DefaultServiceFee = 0.99

// Order is a confirmed purchase. Line items live in order_items so the order
// keeps the name, price and vendor the buyer saw even if the listing changes
// later. Immutable after placement except for Status.
type Order struct {
	gorm.Model
	Number string `gorm:"uniqueIndex;size:20;not null" json:"order_number"`
	UserID uint   `gorm:"not null;index" json:"user_id"`

	Items []OrderItem `json:"items"`

	Subtotal   float64 `gorm:"not null" json:"subtotal"`
	ServiceFee float64 `gorm:"not null" json:"service_fee"`
	Total      float64 `gorm:"not null" json:"total"`

	Status string `gorm:"size:50;default:confirmed;index" json:"status"`

	PickupAddress string    `gorm:"size:255" json:"pickup_address"`
	PickupTime    time.Time `json:"pickup_time"`
	PaymentMethod string    `gorm:"size:100" json:"payment_method"` // e.g. "visa ****4242"

	// Impact snapshot computed at placement time.
	FoodSavedKg float64 `json:"food_saved_kg"`
	CO2SavedKg  float64 `json:"co2_saved_kg"`
}

// OrderItem is one purchased line, denormalised from the FoodItem at
// placement time.
type OrderItem struct {
	gorm.Model
	OrderID    uint    `gorm:"not null;index" json:"-"`
	FoodItemID uint    `gorm:"not null;index" json:"food_item_id"`
	VendorID   uint    `gorm:"not null;index" json:"vendor_id"`
	VendorName string  `gorm:"size:255" json:"vendor_name"`
	Name       string  `gorm:"size:255;not null" json:"name"`
	UnitPrice  float64 `gorm:"not null" json:"unit_price"`
	Quantity   int     `gorm:"not null" json:"quantity"`
	ImageURL   string  `gorm:"size:512" json:"image_url,omitempty"`
}

// VendorIDs returns the distinct vendors represented in the order, used to
// fan out placement notifications.
func (o *Order) VendorIDs() []uint {
	seen := map[uint]bool{}
	var out []uint
	for _, it := range o.Items {
		if !seen[it.VendorID] {
			seen[it.VendorID] = true
			out = append(out, it.VendorID)
		}
	}
	return out
}

// TransitionSources lists the statuses an order may hold immediately before
// moving to next. Used as the SQL guard on status updates.
func TransitionSources(next string) []string {
	switch next {
	case OrderReady:
		return []string{OrderConfirmed}
	case OrderPickedUp:
		return []string{OrderReady}
	case OrderCancelled:
		return []string{OrderConfirmed, OrderReady}
	default:
		return nil
	}
}

// CanTransition reports whether an order may move from its current status to
// next.
func (o *Order) CanTransition(next string) bool {
	for _, from := range TransitionSources(next) {
		if o.Status == from {
			return true
		}
	}
	return false
}

const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewOrderNumber returns a human-readable order reference like "LB-7QX2M9KT4A".
// The alphabet omits easily confused characters (0/O, 1/I).
func NewOrderNumber() string {
	buf := make([]byte, 10)
	rand.Read(buf)
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return "LB-" + string(buf)
}
