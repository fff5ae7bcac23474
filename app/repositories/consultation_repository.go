package repositories

import (
	"context"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

type ConsultationRepository struct {
	store store.Store
}

func NewConsultationRepository(s store.Store) *ConsultationRepository {
	return &ConsultationRepository{store: s}
}

// All returns every consultation request, newest first.
func (r *ConsultationRepository) All(ctx context.Context) ([]models.Consultation, error) {
	docs, err := r.store.Query(ctx, store.Consultations, nil,
		&store.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Consultation](docs)
}

func (r *ConsultationRepository) Find(ctx context.Context, id string) (models.Consultation, error) {
	doc, err := r.store.Get(ctx, store.Consultations, id)
	if err != nil {
		return models.Consultation{}, err
	}
	var c models.Consultation
	err = store.Decode(doc, &c)
	return c, err
}

func (r *ConsultationRepository) Create(ctx context.Context, c models.Consultation) (string, error) {
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Status == "" {
		c.Status = models.ConsultationNew
	}

	fields, err := store.Fields(c)
	if err != nil {
		return "", err
	}
	return r.store.Create(ctx, store.Consultations, fields)
}

func (r *ConsultationRepository) SetStatus(ctx context.Context, id, status string) error {
	return r.store.Update(ctx, store.Consultations, id, map[string]any{
		"status":    status,
		"updatedAt": time.Now(),
	})
}

func (r *ConsultationRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Consultations, id)
}
