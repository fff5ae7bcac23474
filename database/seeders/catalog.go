package seeders

import (
	"context"
	"time"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a small demo catalogue. Existing products are left
// alone; the seeder only fills an empty collection.
func SeedProducts(ctx context.Context, s store.Store) error {
	existing, err := s.Query(ctx, store.Products, nil, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	products := []models.Product{
		{
			Name:        "Crimson Rumba Dress",
			Description: "Fringe-skirt latin dress with crystal bodice.",
			Price:       890000,
			Category:    "latin",
			Sizes:       []string{"S", "M", "L"},
			Colors:      []string{"crimson", "black"},
		},
		{
			Name:        "Midnight Waltz Gown",
			Description: "Floor-length standard gown with float sleeves.",
			Price:       1250000,
			Category:    "standard",
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors:      []string{"navy", "emerald"},
		},
		{
			Name:        "Practice Wrap Skirt",
			Description: "Lightweight training skirt, mid-calf cut.",
			Price:       145000,
			Category:    "practice",
			Sizes:       []string{"FREE"},
			Colors:      []string{"black", "wine", "violet"},
		},
	}

	for _, p := range products {
		p.CreatedAt = now
		p.UpdatedAt = now
		fields, err := store.Fields(p)
		if err != nil {
			return err
		}
		if _, err := s.Create(ctx, store.Products, fields); err != nil {
			return err
		}
	}
	return nil
}
