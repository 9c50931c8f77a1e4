package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/pkg/cache"
)

// Cart is a user's pending selection. It is advisory only: the catalog is
// re-checked at placement time and the cart never reserves stock.
type Cart struct {
	Items     []repositories.Line `json:"items"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// CartStore persists carts between requests.
type CartStore interface {
	Get(userID uint) (Cart, error)
	Save(userID uint, cart Cart) error
	Clear(userID uint) error
}

const cartTTL = 7 * 24 * time.Hour

// ─── Redis driver ─────────────────────────────────────────────────────────────

type redisCartStore struct{}

// NewRedisCartStore returns the production cart store, backed by the shared
// Redis connection.
func NewRedisCartStore() CartStore { return &redisCartStore{} }

func cartKey(userID uint) string { return fmt.Sprintf("cart:%d", userID) }

func (redisCartStore) Get(userID uint) (Cart, error) {
	var c Cart
	if cache.RDB == nil {
		return c, fmt.Errorf("cart: redis not connected")
	}
	raw, err := cache.RDB.Get(cache.Ctx, cartKey(userID)).Bytes()
	if err != nil {
		return Cart{}, nil // absent cart is an empty cart
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cart{}, nil
	}
	return c, nil
}

func (redisCartStore) Save(userID uint, cart Cart) error {
	if cache.RDB == nil {
		return fmt.Errorf("cart: redis not connected")
	}
	cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return cache.RDB.Set(cache.Ctx, cartKey(userID), raw, cartTTL).Err()
}

func (redisCartStore) Clear(userID uint) error {
	if cache.RDB == nil {
		return nil
	}
	return cache.RDB.Del(cache.Ctx, cartKey(userID)).Err()
}

// ─── Memory driver ────────────────────────────────────────────────────────────

type memoryCartStore struct {
	mu    sync.RWMutex
	carts map[uint]Cart
}

// NewMemoryCartStore returns an in-process cart store, used in tests and when
// Redis is not configured.
func NewMemoryCartStore() CartStore {
	return &memoryCartStore{carts: map[uint]Cart{}}
}

func (m *memoryCartStore) Get(userID uint) (Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carts[userID], nil
}

func (m *memoryCartStore) Save(userID uint, cart Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart.UpdatedAt = time.Now()
	m.carts[userID] = cart
	return nil
}

func (m *memoryCartStore) Clear(userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

// ─── Service ──────────────────────────────────────────────────────────────────

// CartLineView is one reconciled cart line with its current catalog state.
type CartLineView struct {
	FoodItemID uint    `json:"food_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Requested  int     `json:"requested"`
	Available  int     `json:"available"`
	// Effective is min(requested, available): the quantity an order placed
	// right now would get.
	Effective int    `json:"effective"`
	Warning   string `json:"warning,omitempty"`
}

// CartView is the reconciled cart returned to clients.
type CartView struct {
	Lines    []CartLineView `json:"lines"`
	Subtotal float64        `json:"subtotal"`
	Warnings int            `json:"warnings"`
}

// CartService stores carts and reconciles them against the live catalog.
type CartService struct {
	store CartStore
	items *repositories.FoodItemRepository
}

func NewCartService(store CartStore) *CartService {
	return &CartService{store: store, items: repositories.NewFoodItemRepository()}
}

// Set replaces the user's cart with the given lines.
func (s *CartService) Set(userID uint, lines []repositories.Line) error {
	return s.store.Save(userID, Cart{Items: mergeLines(lines)})
}

// Clear empties the user's cart.
func (s *CartService) Clear(userID uint) error {
	return s.store.Clear(userID)
}

// Get reconciles the stored cart against current stock. The stored cart is
// never mutated here; a line whose quantity exceeds stock keeps its requested
// amount and gains a warning, so the client decides what to do.
func (s *CartService) Get(userID uint) (CartView, error) {
	cart, err := s.store.Get(userID)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{Lines: []CartLineView{}}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uint, len(cart.Items))
	for i, l := range cart.Items {
		ids[i] = l.FoodItemID
	}
	byID, err := s.items.FindByIDs(ids)
	if err != nil {
		return CartView{}, err
	}

	for _, l := range cart.Items {
		line := CartLineView{FoodItemID: l.FoodItemID, Requested: l.Quantity}

		item, ok := byID[l.FoodItemID]
		if !ok {
			line.Warning = "This item is no longer available"
			view.Warnings++
			view.Lines = append(view.Lines, line)
			continue
		}

		line.Name = item.Name
		line.UnitPrice = item.DiscountedPrice
		line.Available = item.Quantity
		line.Effective = l.Quantity
		if item.Quantity < l.Quantity {
			line.Effective = item.Quantity
			line.Warning = fmt.Sprintf("Only %d available, but %d requested", item.Quantity, l.Quantity)
			view.Warnings++
		}

		view.Subtotal += item.DiscountedPrice * float64(line.Effective)
		view.Lines = append(view.Lines, line)
	}

	return view, nil
}

// Checkout places an order from the stored cart and clears it on success.
func (s *CartService) Checkout(userID uint, orders *OrderService, in PlaceOrderInput) (models.Order, error) {
	cart, err := s.store.Get(userID)
	if err != nil {
		return models.Order{}, err
	}

	in.Items = cart.Items
	order, err := orders.Place(userID, in)
	if err != nil {
		return models.Order{}, err
	}

	_ = s.store.Clear(userID)
	return order, nil
}
