package services

import (
	"context"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/pkg/cache"
)

const (
	catalogCacheKey = "catalog:products"
	catalogCacheTTL = 5 * time.Minute
)

// ProductInput is a product create/update form. Pointer fields distinguish
// "not submitted" from "submitted as zero" on updates, which is what keeps
// the propagation patch honest.
type ProductInput struct {
	Name        string   `json:"name"        validate:"required,max=200"`
	Description string   `json:"description" validate:"nullable,max=2000"`
	Price       *float64 `json:"price"       validate:"nullable"`
	Category    string   `json:"category"    validate:"required,max=50"`
	ImageURL    *string  `json:"imageUrl"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

type CatalogService struct {
	products *repositories.ProductRepository
	sync     *consistency.SyncEngine
}

func NewCatalogService(products *repositories.ProductRepository, sync *consistency.SyncEngine) *CatalogService {
	return &CatalogService{products: products, sync: sync}
}

// List returns the catalog, served from cache when warm.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	var cached []models.Product
	if cache.Get(catalogCacheKey, &cached) {
		return cached, nil
	}

	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	_ = cache.Set(catalogCacheKey, products, catalogCacheTTL)
	return products, nil
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return s.products.ByCategory(ctx, category)
}

func (s *CatalogService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.products.Find(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	p := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Sizes:       in.Sizes,
		Colors:      in.Colors,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}

	id, err := s.products.Create(ctx, p)
	if err != nil {
		return models.Product{}, err
	}
	_ = cache.Del(catalogCacheKey)
	return s.products.Find(ctx, id)
}

// Update saves the edit and then schedules the order-snapshot propagation
// sweep. The save result never waits on the sweep.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	partial := map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"category":    in.Category,
	}
	if in.Price != nil {
		partial["price"] = *in.Price
	}
	if in.ImageURL != nil {
		partial["imageUrl"] = *in.ImageURL
	}
	if in.Sizes != nil {
		partial["sizes"] = in.Sizes
	}
	if in.Colors != nil {
		partial["colors"] = in.Colors
	}

	if err := s.products.Update(ctx, id, partial); err != nil {
		return models.Product{}, err
	}
	_ = cache.Del(catalogCacheKey)

	s.sync.PropagateAsync(id, consistency.ProductPatch{
		Name:     in.Name,
		ImageURL: in.ImageURL,
		Price:    in.Price,
	})

	return s.products.Find(ctx, id)
}

// Delete removes the product. Existing orders keep their snapshots; the
// read path falls back to them once the live product is gone.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	_ = cache.Del(catalogCacheKey)
	return nil
}
