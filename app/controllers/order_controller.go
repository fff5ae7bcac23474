package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/services"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/bind"
	"github.com/miraedance/atelier/pkg/middleware"
	"github.com/miraedance/atelier/pkg/response"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Create handles POST /api/orders (authenticated customer).
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	var in services.OrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Create(r.Context(), claims.AccountID, in)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusUnprocessableEntity, "product does not exist")
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not place order")
		return
	}
	response.Created(w, order)
}

// Mine handles GET /api/orders/mine: the authenticated customer's orders
// through the fallback matching chain.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		response.Unauthorized(w)
		return
	}

	orders, err := c.orders.ForCustomer(r.Context(), claims.AccountID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	response.Success(w, orders)
}

// Index handles GET /api/admin/orders.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.All(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	response.Success(w, orders)
}

// Show handles GET /api/admin/orders/{id}.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}
	response.Success(w, order)
}

type statusBody struct {
	Status string `json:"status" validate:"required"`
}

// Transition handles PATCH /api/admin/orders/{id}/status: progression-
// checked move.
func (c *OrderController) Transition(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.orders.Transition)
}

// SetStatus handles PUT /api/admin/orders/{id}/status: direct assignment,
// no progression check.
func (c *OrderController) SetStatus(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.orders.SetStatus)
}

func (c *OrderController) changeStatus(w http.ResponseWriter, r *http.Request,
	apply func(ctx context.Context, id, to string) (models.Order, error),
) {
	var in statusBody
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := apply(r.Context(), chi.URLParam(r, "id"), in.Status)
	switch {
	case err == nil:
		response.Success(w, order)
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrInvalidTransition):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "could not update order")
	}
}

// Delete handles DELETE /api/admin/orders/{id}.
func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not delete order")
		return
	}
	response.NoContent(w)
}
