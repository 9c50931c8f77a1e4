package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/pkg/database"
	"github.com/shashiranjanraj/lastbite/pkg/metrics"
	"github.com/shashiranjanraj/lastbite/pkg/orm"
)

// Line is one requested order line, as sent by the client.
type Line struct {
	FoodItemID uint `json:"food_item_id" validate:"required"`
	Quantity   int  `json:"quantity" validate:"required,gt=0"`
}

// UnavailableItem describes one line that could not be fulfilled.
type UnavailableItem struct {
	FoodItemID uint   `json:"food_item_id"`
	Name       string `json:"name"`
	Available  int    `json:"available"`
	Requested  int    `json:"requested"`
	Reason     string `json:"reason"`
}

// StockConflictError is returned when at least one line exceeds the remaining
// stock. The whole order is rolled back; no partial fulfilment.
type StockConflictError struct {
	Items []UnavailableItem
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("order: %d item(s) unavailable", len(e.Items))
}

// OrderRepository handles database operations for orders, including the
// placement transaction.
type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Place atomically decrements stock for every line and inserts the order with
// its items. Either every line is reserved and the order exists, or nothing
// changed.
//
// The decrement is guarded in SQL (quantity >= requested) so two concurrent
// orders can never oversell: the losing transaction sees zero rows affected
// and rolls back with a StockConflictError.
func (r *OrderRepository) Place(order *models.Order, lines []Line) error {
	start := time.Now()
	defer metrics.ObserveDBQuery("order_place", start)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var conflicts []UnavailableItem

		for _, l := range lines {
			res := tx.Model(&models.FoodItem{}).
				Where("id = ? AND quantity >= ?", l.FoodItemID, l.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", l.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Re-read for the rejection detail. The decrements already
				// made in this transaction are rolled back either way.
				var item models.FoodItem
				if err := tx.First(&item, l.FoodItemID).Error; err != nil {
					item = models.FoodItem{Name: "unknown"}
					item.ID = l.FoodItemID
				}
				conflicts = append(conflicts, UnavailableItem{
					FoodItemID: l.FoodItemID,
					Name:       item.Name,
					Available:  item.Quantity,
					Requested:  l.Quantity,
					Reason:     fmt.Sprintf("Only %d available, but %d requested", item.Quantity, l.Quantity),
				})
			}
		}

		if len(conflicts) > 0 {
			return &StockConflictError{Items: conflicts}
		}

		return tx.Create(order).Error
	})

	if _, ok := err.(*StockConflictError); ok {
		metrics.StockConflicts.Inc()
	}
	return err
}

// ListByUser returns a user's orders, newest first. An empty slice (not an
// error) when the user has no orders yet.
func (r *OrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Preload("Items").
		Get(&orders)
	return orders, err
}

// FindForUser returns one order by number, scoped to its owner.
func (r *OrderRepository) FindForUser(userID uint, number string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("user_id = ? AND number = ?", userID, number).
		Preload("Items").
		First(&order)
	return order, err
}

// ListByVendor returns the orders containing at least one of the vendor's
// items, newest first, optionally filtered by status.
func (r *OrderRepository) ListByVendor(vendorID uint, status string) ([]models.Order, error) {
	q := orm.DB().Model(&models.Order{}).
		Where("id IN (?)", database.DB.Model(&models.OrderItem{}).
			Select("order_id").
			Where("vendor_id = ?", vendorID))
	if status != "" {
		q = q.Where("status = ?", status)
	}

	orders := []models.Order{}
	err := q.Order("created_at desc").Preload("Items").Get(&orders)
	return orders, err
}

// FindForVendor returns one order by number, provided it contains at least
// one of the vendor's items.
func (r *OrderRepository) FindForVendor(vendorID uint, number string) (models.Order, error) {
	var order models.Order
	err := orm.DB().Model(&models.Order{}).
		Where("number = ?", number).
		Where("id IN (?)", database.DB.Model(&models.OrderItem{}).
			Select("order_id").
			Where("vendor_id = ?", vendorID)).
		Preload("Items").
		First(&order)
	return order, err
}

// ErrStatusConflict is returned by Transition when the order's status changed
// between the read and the update, e.g. two vendors cancelling at once.
var ErrStatusConflict = errors.New("order status changed concurrently")

// Transition moves an order to next. The update is guarded on the statuses
// that may precede next, so a concurrent transition loses cleanly with
// ErrStatusConflict instead of being applied twice. Cancellation returns
// every line's quantity to the catalog in the same transaction; either the
// order is cancelled and the stock is back, or neither happened.
func (r *OrderRepository) Transition(order *models.Order, next string) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID, models.TransitionSources(next)).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if next == models.OrderCancelled {
			for _, it := range order.Items {
				res := tx.Model(&models.FoodItem{}).
					Where("id = ?", it.FoodItemID).
					UpdateColumn("quantity", gorm.Expr("quantity + ?", it.Quantity))
				if res.Error != nil {
					return res.Error
				}
			}
		}
		return nil
	})
	if err == nil {
		order.Status = next
	}
	return err
}
