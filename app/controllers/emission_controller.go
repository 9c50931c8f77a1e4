package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/bind"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type EmissionController struct {
	service *services.EmissionService
}

func NewEmissionController() *EmissionController {
	return &EmissionController{service: services.NewEmissionService()}
}

// Estimate computes the CO2 saving for a described food item, returning the
// full factor breakdown.
func (c *EmissionController) Estimate(w http.ResponseWriter, r *http.Request) {
	var in services.ItemEstimateInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	response.Success(w, c.service.EstimateItem(in))
}

// Factor returns the base emission factor for ?category=&country=, falling
// back to the global row. 404 when no factor exists at all.
func (c *EmissionController) Factor(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		response.Error(w, http.StatusBadRequest, "Missing category")
		return
	}

	factor, ok := c.service.Factor(category, r.URL.Query().Get("country"))
	if !ok {
		response.NotFound(w, "No emission factor for category")
		return
	}

	response.Success(w, factor)
}
