package services

import (
	"context"
	"errors"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/pkg/event"
)

// ErrUnknownConsultationStatus is returned for labels outside
// new/answered/closed.
var ErrUnknownConsultationStatus = errors.New("services: unknown consultation status")

// ConsultationInput is the public inquiry form.
type ConsultationInput struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Phone   string `json:"phone"   validate:"required,max=30"`
	Email   string `json:"email"   validate:"nullable,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

type ConsultationService struct {
	consultations *repositories.ConsultationRepository
}

func NewConsultationService(consultations *repositories.ConsultationRepository) *ConsultationService {
	return &ConsultationService{consultations: consultations}
}

func (s *ConsultationService) Create(ctx context.Context, in ConsultationInput) (models.Consultation, error) {
	id, err := s.consultations.Create(ctx, models.Consultation{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Message: in.Message,
	})
	if err != nil {
		return models.Consultation{}, err
	}

	created, err := s.consultations.Find(ctx, id)
	if err != nil {
		return models.Consultation{}, err
	}
	event.FireAsync(event.ConsultationCreated, created)
	return created, nil
}

func (s *ConsultationService) List(ctx context.Context) ([]models.Consultation, error) {
	return s.consultations.All(ctx)
}

func (s *ConsultationService) SetStatus(ctx context.Context, id, status string) (models.Consultation, error) {
	switch status {
	case models.ConsultationNew, models.ConsultationAnswered, models.ConsultationClosed:
	default:
		return models.Consultation{}, ErrUnknownConsultationStatus
	}

	if err := s.consultations.SetStatus(ctx, id, status); err != nil {
		return models.Consultation{}, err
	}
	return s.consultations.Find(ctx, id)
}

func (s *ConsultationService) Delete(ctx context.Context, id string) error {
	return s.consultations.Delete(ctx, id)
}
