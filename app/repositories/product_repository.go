// Package repositories wraps the document store with typed access per
// collection. Services speak in models; only this layer sees raw field maps.
package repositories

import (
	"context"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

type ProductRepository struct {
	store store.Store
}

func NewProductRepository(s store.Store) *ProductRepository {
	return &ProductRepository{store: s}
}

// All returns every product, newest first.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	docs, err := r.store.Query(ctx, store.Products, nil,
		&store.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Product](docs)
}

// ByCategory returns the products in one category, newest first.
func (r *ProductRepository) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	docs, err := r.store.Query(ctx, store.Products,
		[]store.Filter{store.Eq("category", category)},
		&store.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[models.Product](docs)
}

func (r *ProductRepository) Find(ctx context.Context, id string) (models.Product, error) {
	doc, err := r.store.Get(ctx, store.Products, id)
	if err != nil {
		return models.Product{}, err
	}
	var p models.Product
	err = store.Decode(doc, &p)
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, p models.Product) (string, error) {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now

	fields, err := store.Fields(p)
	if err != nil {
		return "", err
	}
	return r.store.Create(ctx, store.Products, fields)
}

// Update applies a partial field patch and refreshes updatedAt.
func (r *ProductRepository) Update(ctx context.Context, id string, partial map[string]any) error {
	partial["updatedAt"] = time.Now()
	return r.store.Update(ctx, store.Products, id, partial)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.Products, id)
}
