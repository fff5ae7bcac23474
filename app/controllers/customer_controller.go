package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miraedance/atelier/app/services"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/bind"
	"github.com/miraedance/atelier/pkg/middleware"
	"github.com/miraedance/atelier/pkg/response"
)

type CustomerController struct {
	customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{customers: customers}
}

// Profile handles GET /api/profile: the authenticated customer's own record.
func (c *CustomerController) Profile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	customer, err := c.customers.Get(r.Context(), claims.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	response.Success(w, customer)
}

// UpdateProfile handles PUT /api/profile.
func (c *CustomerController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}
	c.update(w, r, claims.AccountID)
}

// Index handles GET /api/admin/customers.
func (c *CustomerController) Index(w http.ResponseWriter, r *http.Request) {
	customers, err := c.customers.List(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load customers")
		return
	}
	response.Success(w, customers)
}

// Show handles GET /api/admin/customers/{id}.
func (c *CustomerController) Show(w http.ResponseWriter, r *http.Request) {
	customer, err := c.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load customer")
		return
	}
	response.Success(w, customer)
}

// Create handles POST /api/admin/customers.
func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CustomerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer, err := c.customers.CreateAdmin(r.Context(), in)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not create customer")
		return
	}
	response.Created(w, customer)
}

// Update handles PUT /api/admin/customers/{id}.
func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	c.update(w, r, chi.URLParam(r, "id"))
}

func (c *CustomerController) update(w http.ResponseWriter, r *http.Request, id string) {
	var in services.CustomerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer, err := c.customers.Update(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not update customer")
		return
	}
	response.Success(w, customer)
}

// Delete handles DELETE /api/admin/customers/{id}.
func (c *CustomerController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not delete customer")
		return
	}
	response.NoContent(w)
}
