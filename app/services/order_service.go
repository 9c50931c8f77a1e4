package services

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/config"
	"github.com/shashiranjanraj/lastbite/pkg/cache"
	"github.com/shashiranjanraj/lastbite/pkg/event"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/metrics"
	"github.com/shashiranjanraj/lastbite/pkg/validate"
)

// EventOrderPlaced is fired after a successful placement with the *models.Order
// as payload. The vendor feed subscribes to it.
const EventOrderPlaced = "order.placed"

// PlaceOrderInput is the payload for order placement. Pickup address and time
// are mandatory; an order the buyer cannot collect is not an order.
type PlaceOrderInput struct {
	Items           []repositories.Line `json:"items" validate:"required"`
	PickupAddress   string              `json:"pickup_address" validate:"required,max=255"`
	PickupTime      string              `json:"pickup_time" validate:"required,date"`
	PaymentMethodID uint                `json:"payment_method_id" validate:"nullable"`
}

// OrderService implements placement and the order queries.
type OrderService struct {
	orders *repositories.OrderRepository
	items  *repositories.FoodItemRepository
	users  *repositories.UserRepository
}

func NewOrderService() *OrderService {
	return &OrderService{
		orders: repositories.NewOrderRepository(),
		items:  repositories.NewFoodItemRepository(),
		users:  repositories.NewUserRepository(),
	}
}

// serviceFee reads the flat platform fee, configurable via SERVICE_FEE.
func serviceFee() float64 {
	if f, err := strconv.ParseFloat(config.Get("SERVICE_FEE", ""), 64); err == nil {
		return f
	}
	return models.DefaultServiceFee
}

// Place runs the full placement flow: availability check, atomic stock
// decrement, impact snapshot, order creation. Returns
// *repositories.StockConflictError when any line exceeds remaining stock and
// ErrNotFound when a line references an unknown item; in both cases nothing
// is persisted.
func (s *OrderService) Place(userID uint, in PlaceOrderInput) (models.Order, error) {
	lines := mergeLines(in.Items)
	if len(lines) == 0 {
		metrics.OrdersRejected.WithLabelValues("validation").Inc()
		return models.Order{}, ErrEmptyOrder
	}

	// Tokens can outlive their account.
	if _, err := s.users.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.OrdersRejected.WithLabelValues("not_found").Inc()
			return models.Order{}, fmt.Errorf("%w: account %d", ErrNotFound, userID)
		}
		metrics.OrdersRejected.WithLabelValues("internal").Inc()
		return models.Order{}, err
	}

	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.FoodItemID
	}

	byID, err := s.items.FindByIDs(ids)
	if err != nil {
		metrics.OrdersRejected.WithLabelValues("internal").Inc()
		return models.Order{}, err
	}

	// Availability pass. Reports every failing line, not just the first, so
	// the client can fix its cart in one round trip.
	var conflicts []repositories.UnavailableItem
	for _, l := range lines {
		item, ok := byID[l.FoodItemID]
		if !ok {
			metrics.OrdersRejected.WithLabelValues("not_found").Inc()
			return models.Order{}, fmt.Errorf("%w: food item %d", ErrNotFound, l.FoodItemID)
		}
		if !item.Available(l.Quantity) {
			conflicts = append(conflicts, repositories.UnavailableItem{
				FoodItemID: item.ID,
				Name:       item.Name,
				Available:  item.Quantity,
				Requested:  l.Quantity,
				Reason:     fmt.Sprintf("Only %d available, but %d requested", item.Quantity, l.Quantity),
			})
		}
	}
	if len(conflicts) > 0 {
		metrics.OrdersRejected.WithLabelValues("unavailable").Inc()
		return models.Order{}, &repositories.StockConflictError{Items: conflicts}
	}

	order := models.Order{
		Number:        models.NewOrderNumber(),
		UserID:        userID,
		Status:        models.OrderConfirmed,
		ServiceFee:    serviceFee(),
		PickupAddress: in.PickupAddress,
		PaymentMethod: s.paymentLabel(userID, in.PaymentMethodID),
	}
	// Same layouts the date validation rule accepts, so a value that passed
	// binding cannot get lost here.
	if in.PickupTime != "" {
		t, err := validate.ParseDate(in.PickupTime)
		if err != nil {
			metrics.OrdersRejected.WithLabelValues("validation").Inc()
			return models.Order{}, fmt.Errorf("%w: %q", ErrInvalidPickupTime, in.PickupTime)
		}
		order.PickupTime = t
	}

	vendorNames := s.vendorNames(byID)
	quantities := make([]int, 0, len(lines))
	for _, l := range lines {
		item := byID[l.FoodItemID]
		order.Items = append(order.Items, models.OrderItem{
			FoodItemID: item.ID,
			VendorID:   item.VendorID,
			VendorName: vendorNames[item.VendorID],
			Name:       item.Name,
			UnitPrice:  item.DiscountedPrice,
			Quantity:   l.Quantity,
			ImageURL:   item.ImageURL,
		})
		order.Subtotal += item.DiscountedPrice * float64(l.Quantity)
		quantities = append(quantities, l.Quantity)
	}
	order.Total = order.Subtotal + order.ServiceFee

	impact := EstimateImpact(quantities)
	order.FoodSavedKg = impact.FoodSavedKg
	order.CO2SavedKg = impact.CO2SavedKg

	if err := s.orders.Place(&order, lines); err != nil {
		var conflict *repositories.StockConflictError
		if errors.As(err, &conflict) {
			metrics.OrdersRejected.WithLabelValues("unavailable").Inc()
		} else {
			metrics.OrdersRejected.WithLabelValues("internal").Inc()
		}
		return models.Order{}, err
	}

	metrics.OrdersPlaced.Inc()
	cache.Del(repositories.CatalogCacheKey)
	event.Fire(EventOrderPlaced, &order)
	logger.Info("order: placed",
		"order", order.Number,
		"user_id", userID,
		"total", order.Total,
		"co2_saved_kg", order.CO2SavedKg,
	)
	return order, nil
}

// mergeLines sums duplicate item references into one line each.
func mergeLines(in []repositories.Line) []repositories.Line {
	idx := map[uint]int{}
	var out []repositories.Line
	for _, l := range in {
		if l.Quantity <= 0 {
			continue
		}
		if i, ok := idx[l.FoodItemID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.FoodItemID] = len(out)
		out = append(out, l)
	}
	return out
}

func (s *OrderService) vendorNames(items map[uint]models.FoodItem) map[uint]string {
	out := map[uint]string{}
	for _, item := range items {
		if _, ok := out[item.VendorID]; ok {
			continue
		}
		if v, err := s.items.FindVendor(item.VendorID); err == nil {
			out[item.VendorID] = v.Name
		}
	}
	return out
}

// paymentLabel resolves a stored payment method into its display label, e.g.
// "visa ****4242". Empty when no method was chosen.
func (s *OrderService) paymentLabel(userID, pmID uint) string {
	if pmID == 0 {
		return ""
	}
	methods, err := s.users.PaymentMethods(userID)
	if err != nil {
		return ""
	}
	for _, pm := range methods {
		if pm.ID == pmID {
			return fmt.Sprintf("%s ****%s", pm.Brand, pm.Last4)
		}
	}
	return ""
}

// Orders returns the account's order history, newest first.
func (s *OrderService) Orders(userID uint) ([]models.Order, error) {
	return s.orders.ListByUser(userID)
}

// Order returns one order by number, scoped to its owner.
func (s *OrderService) Order(userID uint, number string) (models.Order, error) {
	order, err := s.orders.FindForUser(userID, number)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

// VendorOrders returns orders containing the vendor's items.
func (s *OrderService) VendorOrders(vendorID uint, status string) ([]models.Order, error) {
	return s.orders.ListByVendor(vendorID, status)
}

// UpdateStatus moves an order along its lifecycle on behalf of a vendor.
// Cancelling restores the reserved stock; the status change and the restock
// commit together or not at all, and a concurrent transition on the same
// order can only win once.
func (s *OrderService) UpdateStatus(vendorID uint, number, status string) (models.Order, error) {
	order, err := s.orders.FindForVendor(vendorID, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Order{}, ErrNotFound
		}
		return models.Order{}, err
	}

	if !order.CanTransition(status) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.Status, status)
	}

	if err := s.orders.Transition(&order, status); err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrBadTransition, order.Status, status)
		}
		return models.Order{}, err
	}

	if status == models.OrderCancelled {
		cache.Del(repositories.CatalogCacheKey)
	}

	logger.Info("order: status", "order", order.Number, "status", status, "vendor_id", vendorID)
	return order, nil
}
