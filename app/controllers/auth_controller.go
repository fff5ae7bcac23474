// Package controllers maps HTTP requests onto the service layer and the
// error taxonomy onto status codes.
package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/miraedance/atelier/app/services"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/identity"
	"github.com/miraedance/atelier/pkg/bind"
	"github.com/miraedance/atelier/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Signup handles POST /api/signup.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	session, customer, err := c.auth.Signup(r.Context(), in)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Created(w, map[string]any{
		"token":    session.Token,
		"customer": customer,
	})
}

// Login handles POST /api/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email  string `json:"email"    validate:"required,email"`
		Secret string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	session, err := c.auth.Login(r.Context(), in.Email, in.Secret)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, map[string]any{
		"token":     session.Token,
		"accountId": session.AccountID,
		"role":      session.Role,
	})
}

// Logout handles POST /api/logout.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := c.auth.Logout(r.Context(), token); err != nil {
		response.Error(w, http.StatusInternalServerError, "logout failed")
		return
	}
	response.NoContent(w)
}

// writeAuthError maps identity and merge errors onto HTTP statuses.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrEmailInUse):
		response.Conflict(w, "An account with this email already exists.")
	case errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrWeakSecret),
		errors.Is(err, consistency.ErrNameRequired),
		errors.Is(err, consistency.ErrPhoneRequired),
		errors.Is(err, consistency.ErrInvalidEmail):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, identity.ErrNotFound),
		errors.Is(err, identity.ErrWrongSecret):
		response.Error(w, http.StatusUnauthorized, "Invalid email or password.")
	case errors.Is(err, identity.ErrTooManyAttempts):
		response.TooManyRequests(w, "Too many sign-in attempts. Try again later.")
	default:
		response.Error(w, http.StatusInternalServerError, "Something went wrong.")
	}
}
