package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/bind"
	"github.com/shashiranjanraj/lastbite/pkg/event"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/middleware"
	"github.com/shashiranjanraj/lastbite/pkg/response"
	"github.com/shashiranjanraj/lastbite/pkg/ws"
)

// maxImageBytes caps item photo uploads at 5 MB.
const maxImageBytes = 5 << 20

// VendorController is the vendor dashboard API: listing CRUD, incoming
// orders, status updates and the live order feed.
type VendorController struct {
	catalog *services.CatalogService
	orders  *services.OrderService
	hub     *ws.Hub
}

func NewVendorController() *VendorController {
	c := &VendorController{
		catalog: services.NewCatalogService(),
		orders:  services.NewOrderService(),
		hub:     ws.NewHub(),
	}

	// Push every placed order to the dashboards of the vendors involved.
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		for _, vendorID := range order.VendorIDs() {
			c.hub.Publish(vendorID, map[string]interface{}{
				"type":  "order.placed",
				"order": order,
			})
		}
	})

	return c
}

// Items lists the vendor's own listings, sold out included.
func (c *VendorController) Items(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	items, err := c.catalog.List(repositories.CatalogFilter{VendorID: claims.VendorID})
	if err != nil {
		logger.WithCtx(r.Context()).Error("vendor: items", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, items)
}

// CreateItem adds a listing.
func (c *VendorController) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var in services.ItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	item, err := c.catalog.CreateItem(claims.VendorID, in)
	if err != nil {
		c.writeItemError(w, r, "create item", err)
		return
	}

	response.Created(w, item)
}

// UpdateItem edits a listing the vendor owns.
func (c *VendorController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	var in services.ItemInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	item, err := c.catalog.UpdateItem(claims.VendorID, uint(id), in)
	if err != nil {
		c.writeItemError(w, r, "update item", err)
		return
	}

	response.Success(w, item)
}

// DeleteItem removes a listing the vendor owns.
func (c *VendorController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	if err := c.catalog.DeleteItem(claims.VendorID, uint(id)); err != nil {
		c.writeItemError(w, r, "delete item", err)
		return
	}

	response.Success(w, nil)
}

// UploadImage attaches a photo to a listing. Multipart form, field "image".
func (c *VendorController) UploadImage(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Missing image file")
		return
	}
	defer file.Close()

	item, err := c.catalog.AttachImage(claims.VendorID, uint(id), header.Filename, file)
	if err != nil {
		c.writeItemError(w, r, "upload image", err)
		return
	}

	response.Success(w, item)
}

// Orders lists the orders containing the vendor's items, newest first,
// optionally filtered with ?status=.
func (c *VendorController) Orders(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	orders, err := c.orders.VendorOrders(claims.VendorID, r.URL.Query().Get("status"))
	if err != nil {
		logger.WithCtx(r.Context()).Error("vendor: orders", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, orders)
}

// UpdateOrderStatus moves an order along its lifecycle. Allowed transitions:
// confirmed→ready→picked_up, with cancellation from confirmed or ready.
func (c *VendorController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	number := chi.URLParam(r, "number")

	var in struct {
		Status string `json:"status" validate:"required,in=ready,picked_up,cancelled"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(claims.VendorID, number, in.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, services.ErrBadTransition):
			response.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("vendor: order status", "error", err)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	response.Success(w, order)
}

// Feed upgrades to a WebSocket carrying live order notifications for the
// vendor's dashboard.
func (c *VendorController) Feed(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	c.hub.Serve(w, r, claims.VendorID)
}

func (c *VendorController) writeItemError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		response.NotFound(w, "Food item not found")
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w)
	default:
		logger.WithCtx(r.Context()).Error("vendor: "+op, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
