package repositories

import (
	"context"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

type OrderRepository struct {
	store store.Store
}

func NewOrderRepository(s store.Store) *OrderRepository {
	return &OrderRepository{store: s}
}

// All returns every order, newest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	docs, err := r.store.Query(ctx, store.Orders, nil,
		&store.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Order](docs)
}

func (r *OrderRepository) Find(ctx context.Context, id string) (models.Order, error) {
	doc, err := r.store.Get(ctx, store.Orders, id)
	if err != nil {
		return models.Order{}, err
	}
	var o models.Order
	err = store.Decode(doc, &o)
	return o, err
}

func (r *OrderRepository) Create(ctx context.Context, o models.Order) (string, error) {
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now

	fields, err := store.Fields(o)
	if err != nil {
		return "", err
	}
	return r.store.Create(ctx, store.Orders, fields)
}

func (r *OrderRepository) Update(ctx context.Context, id string, partial map[string]any) error {
	partial["updatedAt"] = time.Now()
	return r.store.Update(ctx, store.Orders, id, partial)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Orders, id)
}
