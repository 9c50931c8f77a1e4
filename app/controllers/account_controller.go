package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/lastbite/app/models"
	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/bind"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/middleware"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type AccountController struct {
	service *services.AuthService
}

func NewAccountController() *AccountController {
	return &AccountController{service: services.NewAuthService()}
}

// Profile returns the authenticated account with addresses and stored cards.
func (c *AccountController) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	user, err := c.service.Profile(claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			response.NotFound(w, "Account not found")
			return
		}
		logger.WithCtx(r.Context()).Error("account: profile", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, user)
}

type addressInput struct {
	Label   string `json:"label" validate:"nullable,max=100"`
	Street  string `json:"street" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	Zip     string `json:"zip" validate:"nullable,max=20"`
	Country string `json:"country" validate:"nullable,max=2"`
}

// AddAddress appends an address and responds with the updated address list.
func (c *AccountController) AddAddress(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var in addressInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	addrs, err := c.service.AddAddress(claims.UserID, models.Address{
		Label:   in.Label,
		Street:  in.Street,
		City:    in.City,
		Zip:     in.Zip,
		Country: in.Country,
	})
	if err != nil {
		logger.WithCtx(r.Context()).Error("account: add address", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, addrs)
}

// AddPaymentMethod stores a card. The number is encrypted at rest; responses
// only ever carry brand and last4.
func (c *AccountController) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())

	var in services.PaymentMethodInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	pm, err := c.service.AddPaymentMethod(claims.UserID, in)
	if err != nil {
		logger.WithCtx(r.Context()).Error("account: add payment method", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, pm)
}
