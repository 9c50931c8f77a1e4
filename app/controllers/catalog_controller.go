package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/lastbite/app/repositories"
	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{service: services.NewCatalogService()}
}

// List is the public browse endpoint. Sold-out items are hidden unless
// ?include_sold_out=1.
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.CatalogFilter{
		Category: q.Get("category"),
		City:     q.Get("city"),
		InStock:  q.Get("include_sold_out") == "",
	}
	if v, err := strconv.ParseUint(q.Get("vendor_id"), 10, 64); err == nil {
		filter.VendorID = uint(v)
	}

	items, err := c.service.List(filter)
	if err != nil {
		logger.WithCtx(r.Context()).Error("catalog: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, items)
}

// Show returns one listing. A malformed id is indistinguishable from a
// missing one: both are 404.
func (c *CatalogController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.NotFound(w, "Food item not found")
		return
	}

	item, err := c.service.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w, "Food item not found")
			return
		}
		logger.WithCtx(r.Context()).Error("catalog: show", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, item)
}
