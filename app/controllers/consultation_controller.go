package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/miraedance/atelier/app/services"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/bind"
	"github.com/miraedance/atelier/pkg/response"
)

type ConsultationController struct {
	consultations *services.ConsultationService
}

func NewConsultationController(consultations *services.ConsultationService) *ConsultationController {
	return &ConsultationController{consultations: consultations}
}

// Create handles POST /api/consultations (public inquiry form).
func (c *ConsultationController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ConsultationInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	consultation, err := c.consultations.Create(r.Context(), in)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not submit consultation")
		return
	}
	response.Created(w, consultation)
}

// Index handles GET /api/admin/consultations.
func (c *ConsultationController) Index(w http.ResponseWriter, r *http.Request) {
	consultations, err := c.consultations.List(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load consultations")
		return
	}
	response.Success(w, consultations)
}

// SetStatus handles PATCH /api/admin/consultations/{id}/status.
func (c *ConsultationController) SetStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	consultation, err := c.consultations.SetStatus(r.Context(), chi.URLParam(r, "id"), in.Status)
	switch {
	case err == nil:
		response.Success(w, consultation)
	case errors.Is(err, store.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrUnknownConsultationStatus):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		response.Error(w, http.StatusInternalServerError, "could not update consultation")
	}
}

// Delete handles DELETE /api/admin/consultations/{id}.
func (c *ConsultationController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.consultations.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not delete consultation")
		return
	}
	response.NoContent(w)
}
