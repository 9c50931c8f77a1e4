package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/bind"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/middleware"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController() *OrderController {
	return &OrderController{service: services.NewOrderService()}
}

// Place creates an order.
//
//	200  order placed
//	400  validation failure, or stock conflict with unavailable_items detail
//	404  a line references an unknown food item
//	500  storage failure; nothing was persisted
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var in services.PlaceOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	order, err := c.service.Place(claims.UserID, in)
	if err != nil {
		writeOrderError(w, r, err)
		return
	}

	response.Success(w, order)
}

// writeOrderError maps placement errors to HTTP, shared with cart checkout.
func writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *repositories.StockConflictError
	switch {
	case errors.As(err, &conflict):
		response.Conflict(w, http.StatusBadRequest, "Some items are no longer available",
			map[string]interface{}{"unavailable_items": conflict.Items})
	case errors.Is(err, services.ErrEmptyOrder):
		response.Error(w, http.StatusBadRequest, "Order has no items")
	case errors.Is(err, services.ErrInvalidPickupTime):
		response.Error(w, http.StatusBadRequest, "Invalid pickup time")
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("order: place", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}

// List returns the account's order history, newest first. An account with no
// orders gets an empty list, not an error.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	orders, err := c.service.Orders(claims.UserID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, orders)
}

// Show returns one order by its number.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	number := chi.URLParam(r, "number")

	order, err := c.service.Order(claims.UserID, number)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w, "Order not found")
			return
		}
		logger.WithCtx(r.Context()).Error("order: show", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, order)
}
