// Package controllers holds the HTTP handlers. Controllers bind and validate
// request bodies, call the service layer and translate its errors to HTTP
// statuses; they contain no business logic.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/lastbite/app/services"
	"github.com/shashiranjanraj/lastbite/pkg/bind"
	"github.com/shashiranjanraj/lastbite/pkg/logger"
	"github.com/shashiranjanraj/lastbite/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController() *AuthController {
	return &AuthController{service: services.NewAuthService()}
}

// Register creates an account. 400 when the email is already registered.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	user, token, err := c.service.Register(in)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.Error(w, http.StatusBadRequest, "Email already registered")
			return
		}
		logger.WithCtx(r.Context()).Error("auth: register", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Created(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Login exchanges credentials for a token. 401 on any credential mismatch.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed request body")
		return
	} else if len(errs) > 0 {
		response.Invalid(w, errs)
		return
	}

	user, token, err := c.service.Login(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w)
			return
		}
		logger.WithCtx(r.Context()).Error("auth: login", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	response.Success(w, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}
