package seeders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/internal/store"
)

func init() {
	Register("customers", SeedCustomers)
}

// SeedCustomers inserts a couple of admin-entered walk-in customers. These
// carry "c_" ids and no email, the shape a later self-service signup merges
// into.
func SeedCustomers(ctx context.Context, s store.Store) error {
	existing, err := s.Query(ctx, store.Customers, nil, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	height := 167.0
	waist := 64.5

	now := time.Now()
	customers := []models.Customer{
		{
			Name:         "Kim Minji",
			Phone:        "010-1234-5678",
			Address:      "Seoul, Gangnam-gu",
			Organization: "Seoul Dance Academy",
			Measurements: models.Measurements{Height: &height, Waist: &waist},
		},
		{
			Name:  "Lee Haeun",
			Phone: "010-9876-5432",
		},
	}

	for _, c := range customers {
		c.CreatedAt = now
		c.UpdatedAt = now
		fields, err := store.Fields(c)
		if err != nil {
			return err
		}
		fields["_id"] = "c_" + uuid.NewString()
		if _, err := s.Create(ctx, store.Customers, fields); err != nil {
			return err
		}
	}
	return nil
}
