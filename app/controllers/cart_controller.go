package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/bind"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/middleware"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type CartController struct {
	carts  *services.CartService
	orders *services.OrderService
}

func NewCartController(store services.CartStore) *CartController {
	return &CartController{
		carts:  services.NewCartService(store),
		orders: services.NewOrderService(),
	}
}

// Show returns the cart reconciled against current stock. Lines exceeding
// stock keep their requested quantity and carry a warning; the stored cart is
// not modified.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	view, err := c.carts.Get(claims.UserID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("cart: show", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, view)
}

// Update replaces the cart contents.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var in struct {
		Items []repositories.Line `json:"items" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	if err := c.carts.Set(claims.UserID, in.Items); err != nil {
		logger.WithCtx(r.Context()).Error("cart: update", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	view, err := c.carts.Get(claims.UserID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("cart: update", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	response.Success(w, view)
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	if err := c.carts.Clear(claims.UserID); err != nil {
		logger.WithCtx(r.Context()).Error("cart: clear", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, nil)
}

// Checkout places an order from the cart and clears it on success. Error
// mapping matches the direct placement endpoint.
func (c *CartController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	// The cart supplies the items, so checkout only binds the rest. Pickup
	// details are as mandatory here as on direct placement.
	var in struct {
		PickupAddress   string `json:"pickup_address" validate:"required,max=255"`
		PickupTime      string `json:"pickup_time" validate:"required,date"`
		PaymentMethodID uint   `json:"payment_method_id" validate:"nullable"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	order, err := c.carts.Checkout(claims.UserID, c.orders, services.PlaceOrderInput{
		PickupAddress:   in.PickupAddress,
		PickupTime:      in.PickupTime,
		PaymentMethodID: in.PaymentMethodID,
	})
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	response.Success(w, order)
}
