package seeders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/config"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/auth"
)

func init() {
	Register("admin-account", SeedAdminAccount)
}

// SeedAdminAccount creates the back-office account if none exists.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD, with dev defaults.
func SeedAdminAccount(ctx context.Context, s store.Store) error {
	email := config.Get("ADMIN_EMAIL", "admin@miraedance.example")
	secret := config.Get("ADMIN_PASSWORD", "change-me-now")

	existing, err := s.Query(ctx, store.Accounts, []store.Filter{store.Eq("email", email)}, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := auth.HashSecret(secret)
	if err != nil {
		return err
	}

	now := time.Now()
	fields, err := store.Fields(models.Account{
		ID:         uuid.NewString(),
		Email:      email,
		SecretHash: hash,
		Role:       models.RoleAdmin,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return err
	}
	_, err = s.Create(ctx, store.Accounts, fields)
	return err
}
